// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package astflag provides flag types for polyast tools.
package astflag

import (
	"flag"
	"fmt"
	"strings"
)

type stringList struct {
	list *[]string
}

func (sl *stringList) String() string {
	if sl.list == nil {
		return ""
	}
	return strings.Join(*sl.list, ",")
}

func (sl *stringList) Set(values string) error {
	for _, value := range strings.Split(values, ",") {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		*sl.list = append(*sl.list, value)
	}
	return nil
}

// StringList returns a flag to pass a list of string from the command line.
func StringList(fs *flag.FlagSet, name, doc string) *[]string {
	var list []string
	sList := stringList{&list}
	fs.Var(&sList, name, doc)
	return sList.list
}

type stringMap struct {
	m map[string]string
}

func (sm *stringMap) String() string {
	var pairs []string
	for k, v := range sm.m {
		pairs = append(pairs, k+"="+v)
	}
	return strings.Join(pairs, ",")
}

func (sm *stringMap) Set(values string) error {
	for _, pair := range strings.Split(values, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("invalid key=value pair %q", pair)
		}
		sm.m[key] = strings.TrimSpace(value)
	}
	return nil
}

// StringMap returns a flag to pass key=value pairs, separated by commas,
// from the command line.
func StringMap(fs *flag.FlagSet, name, doc string) map[string]string {
	sMap := stringMap{m: make(map[string]string)}
	fs.Var(&sMap, name, doc)
	return sMap.m
}
