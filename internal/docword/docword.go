// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docword writes Word documents. It emits the minimal OOXML
// package a .docx needs: content types, package relationships, the
// document body, and its relationship part for external hyperlinks.
package docword

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// ContentType is the MIME type browsers expect for a .docx download.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const (
	hyperlinkColor     = "0000FF"
	hyperlinkRelType   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	wordprocessingMain = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	officeRelationship = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// Builder accumulates paragraphs and produces a .docx archive.
// The zero value is ready to use.
type Builder struct {
	body strings.Builder
	rels []relationship
}

type relationship struct {
	id     string
	target string
}

// AddParagraph appends one body paragraph.
func (b *Builder) AddParagraph(text string) {
	b.body.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
	b.body.WriteString(escape(text))
	b.body.WriteString(`</w:t></w:r></w:p>`)
}

// AddHeading appends a paragraph styled with the given heading level
// (1 or 2).
func (b *Builder) AddHeading(text string, level int) {
	fmt.Fprintf(&b.body, `<w:p><w:pPr><w:pStyle w:val="Heading%d"/></w:pPr><w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p>`,
		level, escape(text))
}

// AddReference appends a reference entry. When url is nonempty the
// entry is an external hyperlink rendered blue and underlined;
// otherwise it is a plain paragraph.
func (b *Builder) AddReference(text, url string) {
	if url == "" {
		b.AddParagraph(text)
		return
	}

	id := fmt.Sprintf("rId%d", len(b.rels)+1)
	b.rels = append(b.rels, relationship{id: id, target: url})

	b.body.WriteString(`<w:p><w:hyperlink r:id="` + id + `">`)
	b.body.WriteString(`<w:r><w:rPr><w:color w:val="` + hyperlinkColor + `"/><w:u w:val="single"/></w:rPr>`)
	b.body.WriteString(`<w:t xml:space="preserve">` + escape(text) + `</w:t></w:r></w:hyperlink></w:p>`)
}

// Bytes assembles the OOXML package and returns the .docx file
// contents.
func (b *Builder) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/document.xml", b.documentXML()},
		{"word/_rels/document.xml.rels", b.documentRelsXML()},
		{"word/styles.xml", stylesXML},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", part.name, err)
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			return nil, fmt.Errorf("write %s: %w", part.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}

func (b *Builder) documentXML() string {
	var doc strings.Builder
	doc.WriteString(xml.Header)
	doc.WriteString(`<w:document xmlns:w="` + wordprocessingMain + `" xmlns:r="` + officeRelationship + `"><w:body>`)
	doc.WriteString(b.body.String())
	doc.WriteString(`</w:body></w:document>`)
	return doc.String()
}

func (b *Builder) documentRelsXML() string {
	var rels strings.Builder
	rels.WriteString(xml.Header)
	rels.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, rel := range b.rels {
		rels.WriteString(`<Relationship Id="` + rel.id + `" Type="` + hyperlinkRelType + `" Target="` + escape(rel.target) + `" TargetMode="External"/>`)
	}
	rels.WriteString(`</Relationships>`)
	return rels.String()
}

const contentTypesXML = xml.Header +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`</Types>`

const packageRelsXML = xml.Header +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const stylesXML = xml.Header +
	`<w:styles xmlns:w="` + wordprocessingMain + `">` +
	`<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/>` +
	`<w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/>` +
	`<w:rPr><w:b/><w:sz w:val="26"/></w:rPr></w:style>` +
	`</w:styles>`

// escape replaces the five XML-reserved characters in text content and
// attribute values.
func escape(s string) string {
	return xmlEscaper.Replace(s)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)
