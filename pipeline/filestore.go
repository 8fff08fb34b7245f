// Copyright 2025 Poiesic Systems
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


package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/poiesic/docpipe/core"
	"github.com/poiesic/docpipe/storage"
)

// DirectoryStore serves page images from the local filesystem. A document's
// pages live in one directory, read in file name order. By default that
// directory is <root>/<document id>; Bind overrides the location for a
// specific document.
//
// Tenancy is not enforced at this layer. The store trusts the pipeline to
// only ask for documents the tenant owns.
type DirectoryStore struct {
	root string

	mu    sync.RWMutex
	bound map[core.ID]string
}

var _ FileStore = (*DirectoryStore)(nil)

// NewDirectoryStore creates a store rooted at the given directory.
func NewDirectoryStore(root string) *DirectoryStore {
	return &DirectoryStore{
		root:  root,
		bound: make(map[core.ID]string),
	}
}

// Bind maps a document to an explicit page directory, overriding the
// <root>/<id> convention.
func (d *DirectoryStore) Bind(documentID core.ID, dir string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bound[documentID] = dir
}

// GetPages reads all page files of a document in file name order.
func (d *DirectoryStore) GetPages(_ context.Context, _ core.TenantID, documentID core.ID) ([][]byte, error) {
	dir := d.directory(documentID)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: pages for document %d", storage.ErrNotFound, documentID)
	}

	var pages [][]byte
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		pages = append(pages, data)
	}
	return pages, nil
}

func (d *DirectoryStore) directory(documentID core.ID) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if dir, ok := d.bound[documentID]; ok {
		return dir
	}
	return filepath.Join(d.root, strconv.FormatUint(uint64(documentID), 10))
}
