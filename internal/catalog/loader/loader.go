package loader

import (
	"context"
	"errors"
	"io/fs"

	"github.com/goliatone/go-sendmoney/pkg/catalog"
	"github.com/goliatone/go-sendmoney/pkg/schema"
)

// Loader implements catalog.Loader by delegating to file or fs.FS strategies
// and decoding the result.
type Loader struct {
	fs    fs.FS
	check bool
}

// Ensure the implementation satisfies the public interface.
var _ catalog.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options catalog.LoaderOptions) *Loader {
	files := options.FileSystem
	if files == nil {
		files = catalog.EmbeddedFS()
	}
	return &Loader{
		fs:    files,
		check: !options.SkipStructuralCheck,
	}
}

// Load reads the document behind src and decodes it into a schema.Catalog.
// Missing sources yield catalog.ErrNotFound; unreadable documents yield a
// *catalog.DecodeError.
func (l *Loader) Load(ctx context.Context, src catalog.Source) (schema.Catalog, error) {
	if src == nil {
		return schema.Catalog{}, errors.New("catalog loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case catalog.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case catalog.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	default:
		err = errors.New("catalog loader: unsupported source kind")
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return schema.Catalog{}, catalog.NotFound(src.Location(), err)
		}
		return schema.Catalog{}, err
	}

	return Decode(src.Location(), data, l.check)
}
