package docgen

import (
	"context"
	"fmt"
	"os"

	"github.com/dn-m/documentarian/internal/toolexec"
)

// ExtractRequest names the module to extract and where its dump goes.
type ExtractRequest struct {
	Module     string
	PackageDir string
	OutputFile string
}

// Extractor produces a structured symbol dump for one module.
type Extractor interface {
	Extract(ctx context.Context, req ExtractRequest) error
}

// SourceKitten runs `sourcekitten doc --spm-module <module>` in the package
// directory and writes its stdout to the dump file.
type SourceKitten struct {
	Runner toolexec.Runner
	Binary string
}

func (s *SourceKitten) Extract(ctx context.Context, req ExtractRequest) error {
	// #nosec G304 -- output path is inside the scratch directory.
	out, err := os.Create(req.OutputFile)
	if err != nil {
		return fmt.Errorf("create symbol dump: %w", err)
	}

	_, runErr := s.Runner.Run(ctx, toolexec.Command{
		Tool:   "sourcekitten",
		Module: req.Module,
		Name:   s.Binary,
		Args:   []string{"doc", "--spm-module", req.Module},
		Dir:    req.PackageDir,
		Stdout: out,
	})
	closeErr := out.Close()
	if runErr != nil {
		return runErr
	}
	if closeErr != nil {
		return fmt.Errorf("write symbol dump: %w", closeErr)
	}
	return nil
}
