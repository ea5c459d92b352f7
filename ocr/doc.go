// Package ocr recognizes text in page images so that scanned pages, which
// carry no text blocks, still produce paragraphs.
//
// Recognition uses the Tesseract engine via gosseract and is compiled in
// only with the "ocr" build tag:
//
//	go build -tags ocr ./...
//
// Tesseract must be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
//
// Without the tag, New returns ErrOCRNotEnabled and conversion proceeds
// without recognized text.
package ocr
