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

package ast

import "github.com/gx-org/polyast/build/fmterr"

type (
	// enterFunc is called before the children of a node are visited.
	// It returns the node and true to visit the children, false to skip them.
	// Returning a nil node aborts the traversal.
	enterFunc func(*Node) (*Node, bool)

	// leaveFunc is called after the children of a node have been visited.
	// It returns the node replacing its argument.
	leaveFunc func(*Node) *Node
)

// traverse visits a node and its descendants. Composite fields are detached
// while they are visited so that no copy is made when the tree is not shared.
func traverse(node *Node, enter enterFunc, leave leaveFunc) *Node {
	node, more := enter(node)
	if node == nil || !more {
		return node
	}
	switch u := node.u.(type) {
	case *forNode:
		if u.body != nil {
			body := traverse(takeField(node, forBody), enter, leave)
			node = setField(node, forBody, body)
		}
	case *ifNode:
		if u.then != nil {
			then := traverse(takeField(node, ifThen), enter, leave)
			node = setField(node, ifThen, then)
		}
		if node != nil && node.u.(*ifNode).els != nil {
			els := traverse(takeField(node, ifElse), enter, leave)
			node = setField(node, ifElse, els)
		}
	case *blockNode:
		children := traverseList(takeField(node, blockChildren), enter, leave)
		node = setField(node, blockChildren, children)
	case *markNode:
		child := traverse(takeField(node, markChild), enter, leave)
		node = setField(node, markChild, child)
	case *userNode:
	default:
		node.ctx.SetErr(fmterr.Internalf("cannot traverse a %s node", node.Type()))
		return node.Free()
	}
	if node == nil {
		return nil
	}
	return leave(node)
}

func traverseList(list *NodeList, enter enterFunc, leave leaveFunc) *NodeList {
	for i := range list.Len() {
		child := traverse(list.takeAt(i), enter, leave)
		list = list.restoreAt(i, child)
		if list == nil {
			return nil
		}
	}
	return list
}

// ForeachDescendantTopDown calls fn on the node and its descendants in
// preorder. fn returns true to visit the children of its argument, false to
// skip them, or an error to stop the traversal. The error is then returned.
// The nodes given to fn are borrowed and must not be freed. The tree of the
// caller is not modified.
func (n *Node) ForeachDescendantTopDown(fn func(*Node) (bool, error)) error {
	if n == nil {
		return fmterr.Invalidf("nil node")
	}
	var fnErr error
	enter := func(node *Node) (*Node, bool) {
		more, err := fn(node)
		if err != nil {
			fnErr = err
			return node.Free(), false
		}
		return node, more
	}
	leave := func(node *Node) *Node { return node }
	res := traverse(n.Copy(), enter, leave)
	if res == nil {
		if fnErr != nil {
			return fnErr
		}
		if err := n.ctx.Err(); err != nil {
			return err
		}
		return fmterr.Internalf("traversal failed")
	}
	res.Free()
	return nil
}

// MapDescendantBottomUp replaces the node and its descendants in postorder
// by the result of fn. fn takes ownership of its argument. The children of
// a node are replaced before the node itself is given to fn. If fn returns
// nil, the traversal stops and nil is returned.
func (n *Node) MapDescendantBottomUp(fn func(*Node) *Node) *Node {
	if n == nil {
		return nil
	}
	enter := func(node *Node) (*Node, bool) { return node, true }
	return traverse(n, enter, fn)
}
