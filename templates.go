package sendmoney

import (
	"io/fs"

	"github.com/goliatone/go-sendmoney/pkg/catalog"
	"github.com/goliatone/go-sendmoney/pkg/renderers/html"
)

// EmbeddedTemplates exposes the built-in HTML renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// EmbeddedAssets exposes the stylesheet used by full HTML pages. Typical
// mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(sendmoney.EmbeddedAssets()),
//	  ),
//	)
func EmbeddedAssets() fs.FS {
	return html.AssetsFS()
}

// EmbeddedCatalog exposes the default catalog shipped with the module.
func EmbeddedCatalog() fs.FS {
	return catalog.EmbeddedFS()
}
