package h5

// WalkFunc is called for each object during traversal.
// obj is a Group or a Dataset; err is any error opening it.
// Return nil to continue walking, or an error to stop.
type WalkFunc func(path string, obj Object, err error) error

// Walk traverses every group and dataset below g, starting with g itself.
// Objects other than g are closed after fn returns.
func Walk(g Group, fn WalkFunc) error {
	return walkGroup(g, fn)
}

func walkGroup(g Group, fn WalkFunc) error {
	if err := fn(g.Path(), g, nil); err != nil {
		return err
	}
	members, err := g.Members()
	if err != nil {
		return err
	}
	for _, m := range members {
		childPath := JoinPath(g.Path(), m.Name)
		switch m.Kind {
		case MemberGroup:
			child, err := g.OpenGroup(m.Name)
			if err != nil {
				if err := fn(childPath, nil, err); err != nil {
					return err
				}
				continue
			}
			err = walkGroup(child, fn)
			child.Close()
			if err != nil {
				return err
			}
		case MemberDataset:
			ds, err := g.OpenDataset(m.Name)
			if err != nil {
				if err := fn(childPath, nil, err); err != nil {
					return err
				}
				continue
			}
			err = fn(childPath, ds, nil)
			ds.Close()
			if err != nil {
				return err
			}
		}
	}
	return nil
}
