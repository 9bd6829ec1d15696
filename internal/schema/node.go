package schema

import (
	"github.com/roach88/proplink/internal/property"
	"github.com/roach88/proplink/internal/value"
)

// Node is a dynamic owner instantiated from a Class. Each property's value
// lives in a slot; the instances reach it through accessor storage.
type Node struct {
	class *Class
	name  string
	slots []value.Value
	props []*property.Instance
}

// slotStorage returns accessor storage for slot i of a *Node owner.
func slotStorage(i int) property.Accessor {
	return property.Accessor{
		Get: func(owner any) value.Value { return owner.(*Node).slots[i] },
		Set: func(owner any, v value.Value) { owner.(*Node).slots[i] = v },
	}
}

// New instantiates the class. Every slot starts at the property's default.
func (c *Class) New(name string) *Node {
	n := &Node{
		class: c,
		name:  name,
		slots: make([]value.Value, len(c.Properties)),
		props: make([]*property.Instance, len(c.Properties)),
	}
	for i, def := range c.Properties {
		n.slots[i] = value.Retain(def.Default)
		n.props[i] = property.New(c.specs[i], n, def.ID)
	}
	return n
}

// Class returns the node's class.
func (n *Node) Class() *Class { return n.class }

// Name returns the node's name.
func (n *Node) Name() string { return n.name }

// ClassName returns the name of the node's class.
func (n *Node) ClassName() string { return n.class.Name }

// Property returns the named property instance, or nil.
func (n *Node) Property(name string) *property.Instance {
	i, ok := n.class.byName[name]
	if !ok {
		return nil
	}
	return n.props[i]
}

// PropertyByID returns the instance with the given per-owner id, or nil.
func (n *Node) PropertyByID(id uint32) *property.Instance {
	if id == 0 || int(id) > len(n.props) {
		return nil
	}
	return n.props[id-1]
}

// Properties returns the instances in id order.
func (n *Node) Properties() []*property.Instance {
	return n.props
}

// Destroy destroys every property instance and releases the slots.
func (n *Node) Destroy() {
	for i, p := range n.props {
		if !p.Destroyed() {
			p.Destroy()
		}
		value.Release(n.slots[i])
		n.slots[i] = value.Zero(n.class.Properties[i].Kind)
	}
}
