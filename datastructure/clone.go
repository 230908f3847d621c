package datastructure

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Clone deep-copies the structure. Objects keep their IDs and names, array
// payloads are copied, and references are rebound to the copy. The clone
// gets a new UUID and no observers.
func (ds *DataStructure) Clone() (*DataStructure, error) {
	c := &DataStructure{
		uuid:   uuid.New(),
		index:  make(map[ID]Object, len(ds.index)),
		nextID: ds.nextID,
		issued: make(map[ID]struct{}, len(ds.issued)),
		signal: &Signal{},
		log:    ds.log,
	}
	for id := range ds.issued {
		c.issued[id] = struct{}{}
	}
	c.root = newDataMap(c, nil)
	if err := cloneMap(ds.root, c.root); err != nil {
		return nil, err
	}
	ds.log.WithFields(logrus.Fields{"objects": len(c.index), "from": ds.uuid, "to": c.uuid}).Debug("cloned data structure")
	return c, nil
}

func cloneMap(src, dst *DataMap) error {
	for _, obj := range src.Objects() {
		cp, err := obj.cloneInto(dst.ds)
		if err != nil {
			return err
		}
		dst.link(cp)
		dst.ds.index[cp.ID()] = cp
		g, ok := obj.(BaseGroup)
		if !ok {
			continue
		}
		cg, ok := cp.(BaseGroup)
		if !ok {
			return fmt.Errorf("clone of %q is not a group", obj.Name())
		}
		if err := cloneMap(g.DataMap(), cg.DataMap()); err != nil {
			return err
		}
	}
	return nil
}
