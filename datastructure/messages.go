package datastructure

import "fmt"

// MessageType identifies the kind of structural change.
type MessageType uint8

const (
	ObjectAdded MessageType = iota + 1
	ObjectRemoved
	ObjectRenamed
	ObjectReparented
)

func (t MessageType) String() string {
	switch t {
	case ObjectAdded:
		return "added"
	case ObjectRemoved:
		return "removed"
	case ObjectRenamed:
		return "renamed"
	case ObjectReparented:
		return "reparented"
	default:
		return fmt.Sprintf("MessageType(%d)", uint8(t))
	}
}

// Message describes one structural change. Messages are immutable.
type Message interface {
	Type() MessageType
	Structure() *DataStructure
	ObjectID() ID
}

type base struct {
	ds *DataStructure
	id ID
}

func (b base) Structure() *DataStructure { return b.ds }
func (b base) ObjectID() ID              { return b.id }

// ObjectAddedMessage is sent after an object is inserted.
type ObjectAddedMessage struct {
	base
	parent ID
}

func (*ObjectAddedMessage) Type() MessageType { return ObjectAdded }

// ParentID is the owning group, or InvalidID for the root map.
func (m *ObjectAddedMessage) ParentID() ID { return m.parent }

// ObjectRemovedMessage is sent after an object is destroyed. The object can
// no longer be resolved by ID.
type ObjectRemovedMessage struct {
	base
	name string
}

func (*ObjectRemovedMessage) Type() MessageType { return ObjectRemoved }
func (m *ObjectRemovedMessage) Name() string    { return m.name }

// ObjectRenamedMessage is sent after an object changes name.
type ObjectRenamedMessage struct {
	base
	oldName string
	newName string
}

func (*ObjectRenamedMessage) Type() MessageType { return ObjectRenamed }
func (m *ObjectRenamedMessage) OldName() string { return m.oldName }
func (m *ObjectRenamedMessage) NewName() string { return m.newName }

// ObjectReparentedMessage is sent after an object moves to another parent.
type ObjectReparentedMessage struct {
	base
	oldParent ID
	newParent ID
}

func (*ObjectReparentedMessage) Type() MessageType { return ObjectReparented }
func (m *ObjectReparentedMessage) OldParent() ID   { return m.oldParent }
func (m *ObjectReparentedMessage) NewParent() ID   { return m.newParent }

// NotifyFunc receives structural change messages.
type NotifyFunc func(Message)

// Signal delivers messages synchronously to its connections in the order
// they were made.
type Signal struct {
	conns []*Connection
}

// Connection is a handle on one connected NotifyFunc.
type Connection struct {
	sig *Signal
	fn  NotifyFunc
}

// Connect registers fn.
func (s *Signal) Connect(fn NotifyFunc) *Connection {
	c := &Connection{sig: s, fn: fn}
	s.conns = append(s.conns, c)
	return c
}

// Len returns the number of live connections.
func (s *Signal) Len() int { return len(s.conns) }

func (s *Signal) emit(msg Message) {
	snapshot := make([]*Connection, len(s.conns))
	copy(snapshot, s.conns)
	for _, c := range snapshot {
		if c.sig != nil {
			c.fn(msg)
		}
	}
}

// Disconnect stops delivery to this connection. It is idempotent.
func (c *Connection) Disconnect() {
	s := c.sig
	if s == nil {
		return
	}
	c.sig = nil
	for i, cc := range s.conns {
		if cc == c {
			s.conns = append(s.conns[:i], s.conns[i+1:]...)
			break
		}
	}
}

// Connected reports whether the connection still receives messages.
func (c *Connection) Connected() bool { return c.sig != nil }

// Observer watches at most one DataStructure at a time.
type Observer struct {
	onNotify func(*DataStructure, Message)
	ds       *DataStructure
	conn     *Connection
}

// NewObserver returns an observer that calls fn for every message of the
// structure it observes.
func NewObserver(fn func(*DataStructure, Message)) *Observer {
	return &Observer{onNotify: fn}
}

// StartObserving stops observing any previous structure and connects to ds.
func (o *Observer) StartObserving(ds *DataStructure) {
	o.StopObserving()
	if ds == nil {
		return
	}
	o.ds = ds
	o.conn = ds.Signal().Connect(func(msg Message) {
		o.onNotify(ds, msg)
	})
}

// StopObserving disconnects from the observed structure, if any.
func (o *Observer) StopObserving() {
	if o.conn != nil {
		o.conn.Disconnect()
	}
	o.conn = nil
	o.ds = nil
}

// Observed returns the structure being observed, or nil.
func (o *Observer) Observed() *DataStructure { return o.ds }

// IsObserving reports whether the observer is connected.
func (o *Observer) IsObserving() bool { return o.conn != nil && o.conn.Connected() }
