package windlib

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
)

const (
	// FsTargetDirPrefix marks a directory which is currently opened by
	// an offline geolocator. The rest of the name is a checksum of the
	// directory contents, so the same download produces the same name.
	// Anything else in a base directory is garbage and can be removed.
	FsTargetDirPrefix = "target_"

	// FsTempDirPrefix marks a staging directory. A geolocator downloads
	// a fresh database into it; when download succeeds, the directory is
	// renamed into a target one and a previous target is removed.
	FsTempDirPrefix = "tmp_"
)

// fsUpdater keeps a database of offline geolocator fresh. It owns a
// base directory of the geolocator and runs periodic downloads in
// background.
type fsUpdater struct {
	ctx        context.Context
	cancel     context.CancelFunc
	fs         afero.Afero
	logger     Logger
	provider   OfflineGeolocator
	usageStats *UsageStats
	loopWg     sync.WaitGroup
}

func (f *fsUpdater) Name() string {
	return f.provider.Name()
}

func (f *fsUpdater) Lookup(ctx context.Context, ip net.IP) (Location, error) {
	return f.provider.Lookup(ctx, ip)
}

func (f *fsUpdater) Start() error {
	if err := f.fs.MkdirAll(f.provider.BaseDirectory(), 0o755); err != nil {
		return fmt.Errorf("cannot create a base directory: %w", err)
	}

	current, err := f.prepareBaseDir()
	if err != nil {
		return fmt.Errorf("cannot prepare a base directory: %w", err)
	}

	if current != "" {
		if err := f.provider.Open(current); err != nil {
			return fmt.Errorf("cannot open a directory %s: %w", current, err)
		}

		f.usageStats.Updated()
	}

	f.loopWg.Add(1)

	go f.loop()

	return nil
}

// Shutdown waits until a running update is finished, so a database
// cannot be opened after provider is shut down.
func (f *fsUpdater) Shutdown() {
	f.cancel()
	f.loopWg.Wait()
	f.provider.Shutdown()
}

// prepareBaseDir removes everything except the most recent target
// directory and returns a path to it. Empty string means there is
// nothing to open yet.
func (f *fsUpdater) prepareBaseDir() (string, error) {
	baseDir := f.provider.BaseDirectory()

	entries, err := f.fs.ReadDir(baseDir)
	if err != nil {
		return "", fmt.Errorf("cannot read a base directory: %w", err)
	}

	var newest fs.FileInfo

	garbage := []string{}

	for _, v := range entries {
		switch {
		case !isTargetDir(v):
			garbage = append(garbage, v.Name())
		case newest == nil:
			newest = v
		case v.ModTime().After(newest.ModTime()):
			garbage = append(garbage, newest.Name())
			newest = v
		default:
			garbage = append(garbage, v.Name())
		}
	}

	for _, v := range garbage {
		if err := f.fs.RemoveAll(filepath.Join(baseDir, v)); err != nil {
			return "", fmt.Errorf("cannot delete %s: %w", v, err)
		}
	}

	if newest == nil {
		return "", nil
	}

	return filepath.Join(baseDir, newest.Name()), nil
}

func (f *fsUpdater) loop() {
	defer f.loopWg.Done()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-f.ctx.Done():
			return
		case <-timer.C:
			f.refresh()
			timer.Reset(f.provider.UpdateEvery())
		}
	}
}

func (f *fsUpdater) refresh() {
	if err := f.refreshDatabase(); err != nil {
		f.logger.UpdateError(f.Name(), err)

		return
	}

	f.usageStats.Updated()
	f.logger.UpdateInfo(f.Name(), "database has been updated")
}

func (f *fsUpdater) refreshDatabase() error {
	current, err := f.currentTargetDir()
	if err != nil {
		return err
	}

	stagingDir, err := f.fs.TempDir(f.provider.BaseDirectory(), FsTempDirPrefix)
	if err != nil {
		return fmt.Errorf("cannot create a staging directory: %w", err)
	}

	defer f.fs.RemoveAll(stagingDir) // nolint: errcheck

	if err := f.provider.Download(f.ctx, afero.NewBasePathFs(f.fs.Fs, stagingDir)); err != nil {
		return fmt.Errorf("cannot download a database: %w", err)
	}

	checksum, err := directoryChecksum(f.fs, stagingDir)
	if err != nil {
		return fmt.Errorf("cannot calculate a checksum of downloaded files: %w", err)
	}

	next := filepath.Join(f.provider.BaseDirectory(), FsTargetDirPrefix+checksum)
	if next == current {
		return nil
	}

	if err := f.ctx.Err(); err != nil {
		return fmt.Errorf("update is cancelled: %w", err)
	}

	return f.promote(stagingDir, next, current)
}

func (f *fsUpdater) promote(stagingDir, next, current string) error {
	if err := f.fs.Rename(stagingDir, next); err != nil {
		return fmt.Errorf("cannot rename %s to %s: %w", stagingDir, next, err)
	}

	if err := f.provider.Open(next); err != nil {
		f.fs.RemoveAll(next) // nolint: errcheck

		return fmt.Errorf("cannot open %s: %w", next, err)
	}

	if current == "" {
		return nil
	}

	if err := f.fs.RemoveAll(current); err != nil {
		return fmt.Errorf("cannot remove previous target dir: %w", err)
	}

	return nil
}

func (f *fsUpdater) currentTargetDir() (string, error) {
	baseDir := f.provider.BaseDirectory()

	entries, err := f.fs.ReadDir(baseDir)
	if err != nil {
		return "", fmt.Errorf("cannot read a base directory: %w", err)
	}

	for _, v := range entries {
		if isTargetDir(v) {
			return filepath.Join(baseDir, v.Name()), nil
		}
	}

	return "", nil
}

func isTargetDir(info fs.FileInfo) bool {
	return info.IsDir() && strings.HasPrefix(info.Name(), FsTargetDirPrefix)
}

// directoryChecksum hashes relative paths and contents of all regular
// files in a directory. Each path is prefixed with 0x00 and each
// content with 0x01.
func directoryChecksum(filesystem afero.Afero, dir string) (string, error) {
	hasher := sha256.New()

	err := filesystem.Walk(dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("cannot build a relative path of %s: %w", path, err)
		}

		hasher.Write([]byte{0})         // nolint: errcheck
		io.WriteString(hasher, relPath) // nolint: errcheck
		hasher.Write([]byte{1})         // nolint: errcheck

		return hashFile(filesystem, path, hasher)
	})
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func hashFile(filesystem afero.Afero, path string, w io.Writer) error {
	fp, err := filesystem.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open a file %s: %w", path, err)
	}

	defer fp.Close()

	if _, err := io.Copy(w, fp); err != nil {
		return fmt.Errorf("cannot read a file %s: %w", path, err)
	}

	return nil
}

func newFsUpdater(provider OfflineGeolocator, filesystem afero.Fs, logger Logger, stats *UsageStats) *fsUpdater {
	ctx, cancel := context.WithCancel(context.Background())

	return &fsUpdater{
		ctx:        ctx,
		cancel:     cancel,
		fs:         afero.Afero{Fs: filesystem},
		logger:     logger,
		provider:   provider,
		usageStats: stats,
	}
}
