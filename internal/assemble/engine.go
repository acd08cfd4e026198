package assemble

import (
	"os"
	"path/filepath"
	"time"

	"traypack/internal/config"
	serr "traypack/internal/errors"
	"traypack/internal/fsx"
	"traypack/internal/log"
	"traypack/internal/tray"
	"traypack/pkg/types"
)

// Engine materializes gallery item plans under an output root.
type Engine struct {
	output   string
	dryRun   bool
	copier   fsx.Copier
	filter   *Filter
	typeDirs map[string]error // creation result per type folder
}

// Option configures an Engine.
type Option func(*Engine)

// WithDryRun makes the engine report planned copies without touching disk.
func WithDryRun(dryRun bool) Option {
	return func(e *Engine) { e.dryRun = dryRun }
}

// WithCopier replaces the file copier.
func WithCopier(c fsx.Copier) Option {
	return func(e *Engine) { e.copier = c }
}

// WithFilter restricts which plans are materialized.
func WithFilter(f *Filter) Option {
	return func(e *Engine) { e.filter = f }
}

// New creates an engine writing under output.
func New(output string, opts ...Option) *Engine {
	e := &Engine{
		output:   output,
		copier:   fsx.FileCopier{},
		typeDirs: make(map[string]error),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewWithConfig creates an engine from configuration settings.
func NewWithConfig(cfg *config.Config) (*Engine, error) {
	filter, err := NewFilter(cfg.Filter.Include, cfg.Filter.Types)
	if err != nil {
		return nil, err
	}
	return New(cfg.Directories.Output,
		WithDryRun(cfg.Settings.DryRun),
		WithCopier(fsx.FileCopier{Verify: cfg.Settings.Verify}),
		WithFilter(filter),
	), nil
}

// IsDryRun returns whether the engine is in dry run mode
func (e *Engine) IsDryRun() bool {
	return e.dryRun
}

// Output returns the output root.
func (e *Engine) Output() string {
	return e.output
}

// Pack plans every classified item, applies the filter and materializes the
// result. Classification diagnostics are carried into the result.
func (e *Engine) Pack(trayDir string, content *tray.Content) *types.PackResult {
	result := &types.PackResult{
		TrayDir:   trayDir,
		OutputDir: e.output,
		DryRun:    e.dryRun,
		StartedAt: time.Now(),
	}

	for _, d := range content.Diagnostics {
		result.Skipped = append(result.Skipped, types.SkippedFile{
			Path:  d.Path,
			Kind:  serr.KindOf(d.Err).String(),
			Error: d.Err.Error(),
		})
	}

	plans := e.filter.Apply(BuildPlans(content))
	log.Infof("Packing %d gallery items into %s", len(plans), e.output)
	result.Items = e.Apply(plans)
	result.FinishedAt = time.Now()
	return result
}

// Apply materializes plans in order.
func (e *Engine) Apply(plans []Plan) []types.ItemResult {
	results := make([]types.ItemResult, 0, len(plans))
	for _, p := range plans {
		results = append(results, e.Materialize(p))
	}
	return results
}

// Materialize writes a single gallery item.
//
// The item is skipped when its folder can't be created or its primary file
// can't be copied. A failed auxiliary or sequel copy keeps the item but marks
// it corrupted.
func (e *Engine) Materialize(p Plan) types.ItemResult {
	logger := log.LogWithFields(log.F("item", p.Item.Name), log.F("id", p.Item.HexID()))
	res := types.ItemResult{
		Name:   p.Item.Name,
		ID:     p.Item.HexID(),
		Type:   p.Item.Type.String(),
		Folder: filepath.Join(p.TypeFolder, p.ItemFolder),
	}
	itemDir := p.Dir(e.output)

	if e.dryRun {
		for _, c := range p.Files() {
			logger.Infof("Would copy %s", c.Name)
			res.Files = append(res.Files, fileResult(c, itemDir))
		}
		res.Status = types.StatusPlanned
		return res
	}

	if err := e.ensureTypeDir(p.TypeFolder); err != nil {
		res.Status = types.StatusSkipped
		res.Reason = err.Error()
		return res
	}

	if err := os.Mkdir(itemDir, 0o755); err != nil {
		logger.ErrorWithStack(err, "Couldn't create output folder, the whole item will be skipped")
		res.Status = types.StatusSkipped
		res.Reason = serr.NewFileError("couldn't create item folder", itemDir, serr.DirCreateFailed, err).Error()
		return res
	}

	primary := e.copy(p.Primary, itemDir, logger)
	res.Files = append(res.Files, primary)
	if !primary.Copied {
		logger.Warn("The whole gallery item will be skipped, it would be corrupted")
		if err := os.RemoveAll(itemDir); err != nil {
			logger.ErrorWithStack(err, "Couldn't remove partial item folder")
		}
		res.Status = types.StatusSkipped
		res.Reason = primary.Error
		return res
	}

	res.Status = types.StatusPacked
	for _, c := range p.Extras {
		fr := e.copy(c, itemDir, logger)
		res.Files = append(res.Files, fr)
		if !fr.Copied {
			logger.Warn("The resulting gallery item will be corrupted")
			res.Status = types.StatusCorrupted
		}
	}
	return res
}

func (e *Engine) copy(c Copy, itemDir string, logger *log.Logger) types.FileResult {
	fr := fileResult(c, itemDir)
	n, err := e.copier.CopyFile(c.Source, fr.DestinationPath)
	if err != nil {
		logger.With(log.F("file", c.Name)).ErrorWithStack(err, "Couldn't copy file to gallery item folder")
		fr.Error = err.Error()
		return fr
	}
	fr.Copied = true
	fr.Bytes = n
	logger.Infof("%s copied to gallery item folder", c.Name)
	return fr
}

// ensureTypeDir creates a type folder once; a failure is remembered so every
// later item of that type is skipped without retrying.
func (e *Engine) ensureTypeDir(folder string) error {
	if err, seen := e.typeDirs[folder]; seen {
		return err
	}
	err := fsx.EnsureDir(filepath.Join(e.output, folder))
	if err != nil {
		log.LogWithFields(log.F("folder", folder)).
			Errorf("Couldn't create output folder, all %s gallery items will be skipped: %v", folder, err)
	}
	e.typeDirs[folder] = err
	return err
}

func fileResult(c Copy, itemDir string) types.FileResult {
	return types.FileResult{
		SourcePath:      c.Source,
		DestinationPath: filepath.Join(itemDir, c.Name),
		Role:            string(c.Role),
	}
}
