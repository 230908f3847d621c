package h5

import (
	"fmt"
	"strings"
)

// ParseAttrPath parses an attribute path into object path and attribute name.
// Path format: /group/subgroup/object@attribute_name
//
// Examples:
//   - "/@FileVersion" -> objectPath="/", attrName="FileVersion"
//   - "/DataStructure@NextObjectId" -> objectPath="/DataStructure", attrName="NextObjectId"
func ParseAttrPath(path string) (objectPath, attrName string, err error) {
	if path == "" {
		return "", "", fmt.Errorf("%w: empty attribute path", ErrInvalidPath)
	}
	at := strings.LastIndex(path, "@")
	if at == -1 {
		return "", "", fmt.Errorf("%w: attribute path must contain '@': %s", ErrInvalidPath, path)
	}
	attrName = path[at+1:]
	if attrName == "" {
		return "", "", fmt.Errorf("%w: empty attribute name: %s", ErrInvalidPath, path)
	}
	return CleanPath(path[:at]), attrName, nil
}

// JoinAttrPath creates an attribute path from object path and attribute name.
func JoinAttrPath(objectPath, attrName string) string {
	if objectPath == "/" {
		return "/@" + attrName
	}
	return objectPath + "@" + attrName
}

// SplitPath splits a path into its components.
//
// Examples:
//   - "/" -> []string{}
//   - "/foo/bar" -> []string{"foo", "bar"}
func SplitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return []string{}
	}
	return strings.Split(path, "/")
}

// CleanPath normalizes a path to start with "/" and have no trailing slash.
func CleanPath(path string) string {
	if path == "" || path == "/" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimSuffix(path, "/")
}

// JoinPath appends name to a group path.
func JoinPath(parent, name string) string {
	if parent == "/" || parent == "" {
		return "/" + name
	}
	return parent + "/" + name
}

// Open resolves a path relative to g. Intermediate segments must be groups.
// The caller closes the returned object; g itself is returned for "/".
func Open(g Group, path string) (Object, error) {
	parts := SplitPath(path)
	if len(parts) == 0 {
		return g, nil
	}
	cur := g
	for i, name := range parts {
		last := i == len(parts)-1
		sub, err := cur.OpenGroup(name)
		if err == nil {
			if cur != g {
				cur.Close()
			}
			if last {
				return sub, nil
			}
			cur = sub
			continue
		}
		if !last {
			if cur != g {
				cur.Close()
			}
			return nil, fmt.Errorf("%s: %w", JoinPath(cur.Path(), name), err)
		}
		ds, err := cur.OpenDataset(name)
		if cur != g {
			cur.Close()
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return ds, nil
	}
	return nil, ErrNotFound
}
