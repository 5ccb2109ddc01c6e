package mediaindex

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"baldr/internal/asset"
	"baldr/internal/logging"
	"baldr/internal/mediauri"
	"baldr/internal/metadata"
)

// ErrNotFound reports a query without matching declaration.
var ErrNotFound = errors.New("media not found")

// Source answers exact-match lookups of media declarations.
type Source interface {
	Query(ctx context.Context, uri string) (asset.Declaration, error)
}

// Index holds every valid declaration below one media root.
type Index struct {
	root    string
	logger  *slog.Logger
	byRef   map[string]asset.Declaration
	byUUID  map[string]asset.Declaration
	skipped []string
}

// Build walks root and decodes every `*.ext.yml` file. Invalid
// declarations and duplicate identities are logged and skipped.
func Build(ctx context.Context, root string, logger *slog.Logger) (*Index, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("mediaindex: media root is empty")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("mediaindex: inspect media root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("mediaindex: media root %q is not a directory", root)
	}

	idx := &Index{
		root:   root,
		logger: logging.NewComponentLogger(logger, "mediaindex"),
		byRef:  make(map[string]asset.Declaration),
		byUUID: make(map[string]asset.Declaration),
	}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !metadata.IsDeclarationFile(d.Name()) {
			return nil
		}
		idx.load(ctx, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("mediaindex: scan %s: %w", root, err)
	}
	idx.logger.InfoContext(ctx, "media index built",
		logging.String("media_dir", root),
		logging.Int("declarations", len(idx.byRef)),
		logging.Int("skipped", len(idx.skipped)),
	)
	return idx, nil
}

func (idx *Index) load(ctx context.Context, path string) {
	decl, err := metadata.LoadFile(idx.root, path)
	if err != nil {
		idx.skip(ctx, path, "invalid declaration", err)
		return
	}
	if prev, ok := idx.byRef[decl.Ref]; ok {
		idx.skip(ctx, path, "duplicate ref", fmt.Errorf("ref %q already declared by %s", decl.Ref, prev.Path))
		return
	}
	if prev, ok := idx.byUUID[decl.UUID]; ok {
		idx.skip(ctx, path, "duplicate uuid", fmt.Errorf("uuid %q already declared by %s", decl.UUID, prev.Path))
		return
	}
	idx.byRef[decl.Ref] = decl
	idx.byUUID[decl.UUID] = decl
	idx.logger.DebugContext(ctx, "declaration indexed",
		logging.String(logging.FieldAsset, decl.Ref),
		logging.String("path", decl.Path),
	)
}

func (idx *Index) skip(ctx context.Context, path, reason string, err error) {
	idx.skipped = append(idx.skipped, path)
	logging.WarnWithContext(logging.WithContext(ctx, idx.logger), "declaration skipped", "declaration_skipped",
		logging.String("path", path),
		logging.String("reason", reason),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "fix the declaration file and rebuild the index"),
		logging.String(logging.FieldImpact, "the media file cannot be resolved"),
	)
}

// Root returns the scanned media directory.
func (idx *Index) Root() string { return idx.root }

// Len returns the number of indexed declarations.
func (idx *Index) Len() int { return len(idx.byRef) }

// Skipped returns the declaration files that failed to load.
func (idx *Index) Skipped() []string { return slices.Clone(idx.skipped) }

// Query returns the declaration addressed by uri. Fragments are ignored.
func (idx *Index) Query(ctx context.Context, uri string) (asset.Declaration, error) {
	if err := ctx.Err(); err != nil {
		return asset.Declaration{}, err
	}
	parsed, err := mediauri.Parse(uri)
	if err != nil {
		return asset.Declaration{}, err
	}
	lookup := idx.byRef
	key := parsed.Authority
	if parsed.Scheme == mediauri.SchemeUUID {
		lookup = idx.byUUID
		key = strings.ToLower(key)
	}
	decl, ok := lookup[key]
	if !ok {
		return asset.Declaration{}, fmt.Errorf("%s: %w", parsed.WithoutFragment(), ErrNotFound)
	}
	return decl, nil
}

// Refs returns every indexed ref name, sorted.
func (idx *Index) Refs() []string {
	refs := make([]string, 0, len(idx.byRef))
	for ref := range idx.byRef {
		refs = append(refs, ref)
	}
	slices.Sort(refs)
	return refs
}
