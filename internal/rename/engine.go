// Package rename copies image files to their twin-code names.
package rename

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/BartekS5/twinren/pkg/logger"
	"github.com/BartekS5/twinren/pkg/models"
	"github.com/BartekS5/twinren/pkg/utils"
)

// Engine scans one directory level and copies every file whose stem is a
// key of the mapping to outputDir under the twin code. It runs on the
// calling goroutine and keeps no state between calls.
type Engine struct {
	FS  FileSystem
	Log *logger.Logger
}

func NewEngine(log *logger.Logger) *Engine {
	return &Engine{FS: OSFileSystem{}, Log: log}
}

// Process runs a pass with the OS filesystem.
func Process(m models.CodeMapping, inputDir, outputDir string, exts []string, dryRun bool, log *logger.Logger) (models.Result, error) {
	return NewEngine(log).Process(m, inputDir, outputDir, exts, dryRun)
}

// Process copies matching files from inputDir to outputDir. Failures of a
// single file are counted in Result.Errors and never stop the pass. With
// dryRun set nothing on disk is created or modified.
func (e *Engine) Process(m models.CodeMapping, inputDir, outputDir string, exts []string, dryRun bool) (models.Result, error) {
	var res models.Result
	fsys := e.fs()

	info, err := fsys.Stat(inputDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return res, &DirectoryNotFoundError{Path: inputDir, Err: err}
		}
		return res, err
	}
	if !info.IsDir() {
		return res, &DirectoryNotFoundError{Path: inputDir, NotDir: true}
	}

	entries, err := fsys.ReadDir(inputDir)
	if err != nil {
		return res, err
	}

	if !dryRun {
		if err := fsys.MkdirAll(outputDir, 0o755); err != nil {
			return res, err
		}
	}

	allowed := utils.ExtSet(exts)
	for _, entry := range entries {
		src := filepath.Join(inputDir, entry.Name())
		fi, err := fsys.Stat(src)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}

		task := e.processFile(m, src, entry.Name(), outputDir, allowed, dryRun)
		e.Log.Debugf("%s: %s", entry.Name(), task.Outcome)
		switch task.Outcome {
		case Copied:
			res.Processed++
		case Unmatched:
			res.Skipped++
		case Errored:
			res.Errors++
		}
	}

	e.Log.Infof("Operations completed:")
	e.Log.Infof("  - Files processed: %d", res.Processed)
	e.Log.Infof("  - Files skipped: %d", res.Skipped)
	e.Log.Infof("  - Errors: %d", res.Errors)
	e.Log.Infof("  - Total files examined: %d", res.Total())
	return res, nil
}

func (e *Engine) processFile(m models.CodeMapping, src, name, outputDir string, allowed map[string]bool, dryRun bool) Task {
	task := Task{Source: src}
	stem, ext := SplitName(name)

	if !allowed[utils.NormalizeExt(ext)] {
		e.Log.Debugf("File skipped (unsupported extension): %s", name)
		task.Outcome = ExtensionRejected
		return task
	}

	task.Code = stem
	target, ok := m.Twin(stem)
	if !ok {
		e.Log.Warnf("Code not found in mapping: %s", stem)
		task.Outcome = Unmatched
		return task
	}
	task.Target = target

	if err := e.copyToTwin(&task, name, ext, outputDir, dryRun); err != nil {
		e.Log.Errorf("Error while processing %s: %v", name, err)
		task.Outcome = Errored
		task.Err = err
		return task
	}
	task.Outcome = Copied
	return task
}

func (e *Engine) copyToTwin(task *Task, name, ext, outputDir string, dryRun bool) error {
	if !validCode(task.Target) {
		return &InvalidTargetError{Code: task.Target}
	}

	dest := filepath.Join(outputDir, task.Target+ext)
	if !dryRun {
		taken, err := exists(e.fs(), dest)
		if err != nil {
			return err
		}
		if taken {
			dest, err = resolveConflict(e.fs(), outputDir, task.Target, ext)
			if err != nil {
				return err
			}
		}
	}
	task.Destination = dest

	if dryRun {
		e.Log.Infof("[DRY-RUN] %s -> %s", name, filepath.Base(dest))
		return nil
	}
	if err := e.fs().CopyFile(task.Source, dest); err != nil {
		return err
	}
	e.Log.Infof("Renamed: %s -> %s", name, filepath.Base(dest))
	return nil
}

func (e *Engine) fs() FileSystem {
	if e.FS == nil {
		return OSFileSystem{}
	}
	return e.FS
}

// SplitName splits a file name into stem and extension. The extension keeps
// its dot and original case. Dot-files such as ".hidden" and names ending
// in a bare dot have no extension.
func SplitName(name string) (stem, ext string) {
	ext = filepath.Ext(name)
	if ext == name || ext == "." {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}

func validCode(code string) bool {
	if code == "" || code == "." || code == ".." {
		return false
	}
	return !strings.ContainsAny(code, `/\`) && !strings.ContainsRune(code, 0)
}
