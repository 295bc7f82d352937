// Package directory implements the campus eligibility lookup backed by flat
// per-department JSON files. The registrar's office maintains these files out
// of band; the service only reads them and flips the registered flag when an
// account is created.
package directory

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Entry is one directory member record.
type Entry struct {
	Registered bool `json:"registered"`
}

// Data maps department -> member id -> entry.
type Data map[string]map[string]Entry

// Lookup is the result of probing the directory for an id.
type Lookup struct {
	Exists     bool
	Department string
	Registered bool
}

// Directory is a file-backed eligibility list. Mutations rewrite the whole
// file under a lock; the files are small (a campus department roster).
type Directory struct {
	mu   sync.Mutex
	path string
}

// Open binds a directory to its backing file, creating the file with the
// given seed data when it does not exist yet.
func Open(path string, seed Data) (*Directory, error) {
	d := &Directory{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := d.save(seed); err != nil {
			return nil, fmt.Errorf("failed to create directory file %s: %w", path, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat directory file %s: %w", path, err)
	}

	// Verify the file parses before serving lookups from it.
	if _, err := d.load(); err != nil {
		return nil, err
	}

	return d, nil
}

// Find probes the directory for an id. Ids are matched case-insensitively.
func (d *Directory) Find(id string) (Lookup, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := d.load()
	if err != nil {
		return Lookup{}, err
	}

	id = strings.ToLower(id)
	for department, members := range data {
		if entry, ok := members[id]; ok {
			return Lookup{Exists: true, Department: department, Registered: entry.Registered}, nil
		}
	}

	return Lookup{}, nil
}

// MarkRegistered flips the registered flag for an id and persists the file.
// Marking an id that is not in the directory is an error.
func (d *Directory) MarkRegistered(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := d.load()
	if err != nil {
		return err
	}

	id = strings.ToLower(id)
	for department, members := range data {
		if entry, ok := members[id]; ok {
			entry.Registered = true
			data[department][id] = entry
			return d.save(data)
		}
	}

	return fmt.Errorf("id %q not present in directory %s", id, d.path)
}

// Counts returns the number of members and departments, for the startup
// summary log.
func (d *Directory) Counts() (members, departments int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := d.load()
	if err != nil {
		return 0, 0, err
	}

	for _, m := range data {
		members += len(m)
	}
	return members, len(data), nil
}

func (d *Directory) load() (Data, error) {
	raw, err := os.ReadFile(d.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory file %s: %w", d.path, err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse directory file %s: %w", d.path, err)
	}

	return data, nil
}

func (d *Directory) save(data Data) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode directory data: %w", err)
	}

	if err := os.WriteFile(d.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write directory file %s: %w", d.path, err)
	}

	return nil
}

// DefaultStaffSeed is written when no staff directory file exists.
func DefaultStaffSeed() Data {
	return Data{
		"CSE": {"cse101": Entry{}},
		"ECE": {"ece101": Entry{}},
	}
}

// DefaultStudentSeed is written when no student directory file exists.
func DefaultStudentSeed() Data {
	return Data{
		"CSE": {"cse21001": Entry{}},
		"ECE": {"ece21001": Entry{}},
	}
}
