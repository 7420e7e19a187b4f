package parse

import (
	"context"
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/osvaldoandrade/docforge/internal/domain"
)

// FileByFile yields one document per matching file, mirroring the source
// layout under the target directory.
func (s *Service) FileByFile(ctx context.Context) iter.Seq2[Unit, error] {
	return s.sequence(ctx, func(e *emitter) error {
		for _, source := range s.sources {
			info, err := os.Stat(source)
			if err != nil {
				if err := e.fail(err); err != nil {
					return err
				}
				continue
			}
			if !info.IsDir() {
				target := filepath.Join(s.target, s.generate(stem(info.Name())))
				if err := e.emit(target, []domain.SourceFile{sourceFile(source, info)}); err != nil {
					return err
				}
				continue
			}

			err = s.walkFiles(ctx, source, func(path string, info fs.FileInfo) error {
				rel, err := filepath.Rel(source, filepath.Dir(path))
				if err != nil {
					return err
				}
				target := filepath.Join(s.target, rel, s.generate(stem(info.Name())))
				return e.emit(target, []domain.SourceFile{sourceFile(path, info)})
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ByFolder yields one document per directory holding every matching file
// below it. Directories without matching files yield nothing.
func (s *Service) ByFolder(ctx context.Context) iter.Seq2[Unit, error] {
	return s.sequence(ctx, func(e *emitter) error {
		for _, source := range s.sources {
			info, err := os.Stat(source)
			if err != nil {
				if err := e.fail(err); err != nil {
					return err
				}
				continue
			}
			if !info.IsDir() {
				s.logger.Warn("file ignored by folder strategy", "path", source)
				continue
			}

			dirs, files, err := s.collect(ctx, source)
			if err != nil {
				return err
			}
			for _, dir := range dirs {
				target := s.folderTarget(source, dir)
				if err := e.emit(target, filesUnder(dir, files)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// OneShot yields a single document with every matching file from every
// source, named after the target directory.
func (s *Service) OneShot(ctx context.Context) iter.Seq2[Unit, error] {
	return s.sequence(ctx, func(e *emitter) error {
		seen := make(map[string]struct{})
		var all []domain.SourceFile
		add := func(file domain.SourceFile) {
			key := strings.ToLower(filepath.ToSlash(file.Path))
			if _, ok := seen[key]; ok {
				return
			}
			seen[key] = struct{}{}
			all = append(all, file)
		}

		for _, source := range s.sources {
			info, err := os.Stat(source)
			if err != nil {
				if err := e.fail(err); err != nil {
					return err
				}
				continue
			}
			if !info.IsDir() {
				add(sourceFile(source, info))
				continue
			}
			err = s.walkFiles(ctx, source, func(path string, info fs.FileInfo) error {
				add(sourceFile(path, info))
				return nil
			})
			if err != nil {
				return err
			}
		}

		target := filepath.Join(s.target, s.generate(filepath.Base(s.target)))
		return e.emit(target, all)
	})
}

func (s *Service) folderTarget(root, dir string) string {
	if dir == root {
		return filepath.Join(s.target, s.generate(filepath.Base(root)))
	}
	rel, err := filepath.Rel(root, filepath.Dir(dir))
	if err != nil {
		return ""
	}
	return filepath.Join(s.target, rel, s.generate(filepath.Base(dir)))
}

func (s *Service) collect(ctx context.Context, root string) ([]string, []domain.SourceFile, error) {
	var dirs []string
	var files []domain.SourceFile
	err := s.walk(ctx, root, func(path string, d fs.DirEntry) error {
		if d.IsDir() {
			dirs = append(dirs, path)
			return nil
		}
		if info, ok := s.matching(path, d); ok {
			files = append(files, sourceFile(path, info))
		}
		return nil
	})
	return dirs, files, err
}

func (s *Service) walkFiles(ctx context.Context, root string, fn func(path string, info fs.FileInfo) error) error {
	return s.walk(ctx, root, func(path string, d fs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		info, ok := s.matching(path, d)
		if !ok {
			return nil
		}
		return fn(path, info)
	})
}

// walk visits root in lexical order, skipping hidden and unreadable entries.
func (s *Service) walk(ctx context.Context, root string, fn func(path string, d fs.DirEntry) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			s.logger.Debug("skip unreadable path", "path", path, "err", err)
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			if path == root {
				return err
			}
			return nil
		}
		if path != root && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() && path != root && path == s.target {
			return filepath.SkipDir
		}
		return fn(path, d)
	})
}

func (s *Service) matching(path string, d fs.DirEntry) (fs.FileInfo, bool) {
	if !d.Type().IsRegular() {
		return nil, false
	}
	if !s.matches(d.Name()) {
		return nil, false
	}
	info, err := d.Info()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("skip unreadable file", "path", path, "err", err)
		}
		return nil, false
	}
	return info, true
}

func filesUnder(dir string, files []domain.SourceFile) []domain.SourceFile {
	prefix := dir + string(filepath.Separator)
	var out []domain.SourceFile
	for _, file := range files {
		if strings.HasPrefix(file.Path, prefix) {
			out = append(out, file)
		}
	}
	return out
}

func sourceFile(path string, info fs.FileInfo) domain.SourceFile {
	return domain.SourceFile{Path: path, Size: info.Size(), Exists: true}
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
