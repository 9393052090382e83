// Package webui は連絡先管理のブラウザクライアントを提供する。
// 単一のHTMLファイルをバイナリに埋め込んで配信する。
package webui

import (
	"embed"
	"net/http"
)

//go:embed index.html
var content embed.FS

// Handler はブラウザクライアントを配信するHTTPハンドラを返す。
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := content.ReadFile("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(data)
	})
}
