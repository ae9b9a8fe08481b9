package manifest

import (
	"context"
	"fmt"
	"os"

	"github.com/dn-m/documentarian/internal/toolexec"
)

// Source produces a manifest dump on demand.
type Source interface {
	Dump(ctx context.Context) ([]byte, error)
	String() string
}

// SwiftPMSource asks the Swift package manager to describe the package in Dir.
type SwiftPMSource struct {
	Runner toolexec.Runner
	Swift  string // swift binary
	Dir    string // package directory
}

func (s *SwiftPMSource) Dump(ctx context.Context) ([]byte, error) {
	res, err := s.Runner.Run(ctx, toolexec.Command{
		Tool: "swift package dump-package",
		Name: s.Swift,
		Args: []string{"package", "dump-package"},
		Dir:  s.Dir,
	})
	if err != nil {
		return nil, err
	}
	return []byte(res.Stdout), nil
}

func (s *SwiftPMSource) String() string {
	return "swift package dump-package in " + s.Dir
}

// FileSource reads a previously saved dump.
type FileSource struct {
	Path string
}

func (f FileSource) Dump(context.Context) ([]byte, error) {
	// #nosec G304 -- path is supplied by the operator.
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read manifest dump: %w", err)
	}
	return data, nil
}

func (f FileSource) String() string { return f.Path }

// Load dumps and decodes a manifest.
func Load(ctx context.Context, src Source) (*Package, error) {
	data, err := src.Dump(ctx)
	if err != nil {
		return nil, err
	}
	return decode(data, src.String())
}
