// Package ats は履歴書テキストのATS適合度スコアリングを提供する。
package ats

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/net/html"

	"github.com/hitoshi/careernest/internal/model"
)

// サポートする履歴書ファイルのコンテンツタイプ
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeHTML = "text/html"
	ContentTypeText = "text/plain"
)

// ExtractText は取得済みの履歴書ファイルからプレーンテキストを抽出する。
// contentTypeはパラメータ部を含んでよい（"text/html; charset=utf-8"など）。
func ExtractText(data []byte, contentType string) (string, error) {
	mediaType := contentType
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = mediaType[:i]
	}
	mediaType = strings.TrimSpace(strings.ToLower(mediaType))

	switch mediaType {
	case ContentTypePDF:
		return extractPDFText(data)
	case ContentTypeHTML:
		return extractHTMLText(data)
	case ContentTypeText, "":
		return string(data), nil
	default:
		return "", model.NewUnsupportedFileTypeError(mediaType)
	}
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var b strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	return b.String(), nil
}

// extractHTMLText はHTMLからテキストノードのみを取り出す。
// script/style配下は除外する。
func extractHTMLText(data []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				b.WriteString(text)
				b.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return b.String(), nil
}
