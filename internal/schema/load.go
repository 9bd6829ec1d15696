package schema

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// Schema is a set of compiled classes.
type Schema struct {
	Classes []*Class // sorted by name

	byName map[string]*Class
}

// Class returns the named class.
func (s *Schema) Class(name string) (*Class, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// Merge adds other's classes. Declaring the same class twice is an error.
func (s *Schema) Merge(other *Schema) error {
	if s.byName == nil {
		s.byName = make(map[string]*Class)
	}
	for _, c := range other.Classes {
		if _, dup := s.byName[c.Name]; dup {
			return &LoadError{Code: ErrCodeDuplicate, Message: fmt.Sprintf("class %s declared twice", c.Name)}
		}
		s.byName[c.Name] = c
		s.Classes = append(s.Classes, c)
	}
	sort.Slice(s.Classes, func(i, j int) bool { return s.Classes[i].Name < s.Classes[j].Name })
	return nil
}

// Load loads every .cue file of the package in dir and compiles its classes.
func Load(dir string) (*Schema, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("schema directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing schema directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.cue"))
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError(inst.Err, ErrCodeLoadFailed)
	}

	v := ctx.BuildInstance(inst)
	s, err := compile(v)
	if err != nil {
		return nil, err
	}
	slog.Debug("schema loaded", "dir", dir, "files", len(files), "classes", len(s.Classes))
	return s, nil
}

// Compile compiles classes from CUE source. filename is used in error positions.
func Compile(src, filename string) (*Schema, error) {
	ctx := cuecontext.New()
	return compile(ctx.CompileString(src, cue.Filename(filename)))
}

func compile(v cue.Value) (*Schema, error) {
	if err := v.Validate(); err != nil {
		return nil, formatCUEError(err, ErrCodeBuildFailed)
	}

	s := &Schema{byName: make(map[string]*Class)}
	classesVal := v.LookupPath(cue.ParsePath("class"))
	if !classesVal.Exists() {
		return nil, &LoadError{Code: ErrCodeNoClasses, Message: "no classes declared"}
	}
	iter, err := classesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err, ErrCodeGeneric)
	}
	var classes []*Class
	for iter.Next() {
		c, err := CompileClass(iter.Value())
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	if len(classes) == 0 {
		return nil, &LoadError{Code: ErrCodeNoClasses, Message: "no classes declared"}
	}
	if err := s.Merge(&Schema{Classes: classes}); err != nil {
		return nil, err
	}
	return s, nil
}
