package dataio

import (
	"context"

	"github.com/robert-malhotra/go-simplnx/datastructure"
)

// StructureReader builds a DataStructure from a format-specific group
// handle. With useEmptyDataStores, array payloads are left as placeholders
// for on-demand loading.
type StructureReader interface {
	ReadFromGroup(ctx context.Context, group any, useEmptyDataStores bool) Result[*datastructure.DataStructure]
}

// StructureWriter writes a DataStructure into a format-specific group
// handle.
type StructureWriter interface {
	WriteToGroup(ctx context.Context, ds *datastructure.DataStructure, group any) Void
}
