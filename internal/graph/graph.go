// Package graph provides the undirected relationship graph used for join
// inference. Nodes are table keys; an edge means the two tables are joined by
// a foreign key, an explicit relationship, or an expression that references both.
//
// Every traversal visits neighbours in sorted order, so results depend only
// on the set of nodes and edges and never on insertion order.
package graph

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/querygraph/pkg/core"
)

// Node represents a table in the graph.
type Node struct {
	// Key is the table identity (alias, else table name)
	Key string
	// Required nodes must be reachable from the start of the traversal.
	Required bool
}

// Graph represents an undirected graph of tables.
type Graph struct {
	nodes map[string]*Node
	edges map[string]map[string]struct{}
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[string]map[string]struct{}),
	}
}

// AddNode adds a node to the graph. Adding an existing key updates its
// required flag; a node is required if any addition marked it so.
func (g *Graph) AddNode(key string, required bool) {
	if n, exists := g.nodes[key]; exists {
		n.Required = n.Required || required
		return
	}
	g.nodes[key] = &Node{Key: key, Required: required}
	g.edges[key] = make(map[string]struct{})
}

// Connect adds an undirected edge between a and b. Connecting a node to
// itself is a no-op.
func (g *Graph) Connect(a, b string) error {
	if _, exists := g.nodes[a]; !exists {
		return fmt.Errorf("node %q does not exist", a)
	}
	if _, exists := g.nodes[b]; !exists {
		return fmt.Errorf("node %q does not exist", b)
	}
	if a == b {
		return nil
	}
	g.edges[a][b] = struct{}{}
	g.edges[b][a] = struct{}{}
	return nil
}

// ConnectAll connects every pair of the given keys.
func (g *Graph) ConnectAll(keys ...string) error {
	for i := range keys {
		for j := i + 1; j < len(keys); j++ {
			if err := g.Connect(keys[i], keys[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetNode returns a node by key.
func (g *Graph) GetNode(key string) (*Node, bool) {
	node, exists := g.nodes[key]
	return node, exists
}

// Connected reports whether a and b share an edge.
func (g *Graph) Connected(a, b string) bool {
	_, ok := g.edges[a][b]
	return ok
}

// Neighbors returns the sorted keys adjacent to key.
func (g *Graph) Neighbors(key string) []string {
	out := make([]string, 0, len(g.edges[key]))
	for n := range g.edges[key] {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Keys returns all node keys, sorted.
func (g *Graph) Keys() []string {
	keys := make([]string, 0, len(g.nodes))
	for k := range g.nodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of undirected edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, adj := range g.edges {
		count += len(adj)
	}
	return count / 2
}

// Edges returns every edge once as a sorted pair, in sorted order.
func (g *Graph) Edges() [][2]string {
	var out [][2]string
	for _, a := range g.Keys() {
		for _, b := range g.Neighbors(a) {
			if a < b {
				out = append(out, [2]string{a, b})
			}
		}
	}
	return out
}

// ToList returns every node reachable from start in breadth-first order.
// An unknown start yields nil.
func (g *Graph) ToList(start string) []string {
	if _, ok := g.nodes[start]; !ok {
		return nil
	}
	visited := map[string]bool{start: true}
	order := []string{start}
	for i := 0; i < len(order); i++ {
		for _, n := range g.Neighbors(order[i]) {
			if !visited[n] {
				visited[n] = true
				order = append(order, n)
			}
		}
	}
	return order
}

// Reachable returns the set of nodes reachable from start, start included.
func (g *Graph) Reachable(start string) map[string]bool {
	set := make(map[string]bool)
	for _, k := range g.ToList(start) {
		set[k] = true
	}
	return set
}

// Check verifies that every node is reachable from start. An unreachable
// required node is a cartesian join. An optional node whose component holds
// no required node cannot be outer-joined to anything and is reported as
// disconnected, which takes precedence.
func (g *Graph) Check(start string) error {
	reach := g.Reachable(start)
	var cartesian, disconnected []string
	for _, comp := range g.Components() {
		anchored := false
		for _, k := range comp {
			if g.nodes[k].Required {
				anchored = true
				break
			}
		}
		for _, k := range comp {
			switch {
			case reach[k]:
			case !anchored:
				disconnected = append(disconnected, k)
			case g.nodes[k].Required:
				cartesian = append(cartesian, k)
			}
		}
	}
	sort.Strings(cartesian)
	sort.Strings(disconnected)
	if len(disconnected) > 0 {
		return &core.GraphError{Kind: core.GraphDisconnected, Start: start, Unreachable: disconnected}
	}
	if len(cartesian) > 0 {
		return &core.GraphError{Kind: core.GraphCartesian, Start: start, Unreachable: cartesian}
	}
	return nil
}

// Components returns the connected components. Each component is in
// breadth-first order from its smallest key; components are ordered by
// that key.
func (g *Graph) Components() [][]string {
	seen := make(map[string]bool)
	var out [][]string
	for _, k := range g.Keys() {
		if seen[k] {
			continue
		}
		comp := g.ToList(k)
		for _, c := range comp {
			seen[c] = true
		}
		out = append(out, comp)
	}
	return out
}
