package server

import (
	"embed"
	"io/fs"
	"mime"
	"net/http"
	"path"

	"github.com/jrsteele09/go-flight-admin/internal/errors"
)

//go:embed static/*
var staticFiles embed.FS

// staticFS is the asset tree served under /css and /js.
var staticFS = mustSub(staticFiles, "static")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic("static assets: " + err.Error())
	}
	return sub
}

// StreamFile writes an embedded asset. Stylesheets and scripts are the only
// assets, so the content type comes from the extension.
func StreamFile(w http.ResponseWriter, _ *http.Request, fileName string) error {
	data, err := fs.ReadFile(staticFS, fileName)
	if err != nil {
		return errors.Wrapf(err, "[StreamFile] %s", fileName)
	}

	ctype := mime.TypeByExtension(path.Ext(fileName))
	if ctype == "" {
		ctype = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", ctype)
	if _, err := w.Write(data); err != nil {
		return errors.Wrapf(err, "[StreamFile] writing %s", fileName)
	}
	return nil
}
