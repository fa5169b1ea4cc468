package treebuild

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// builderModel labels trees produced by the built-in structure parsers
// when the request names no model.
const builderModel = "builtin-outline"

// ErrBuilderUnavailable is returned when a file build is requested but
// the full builder was disabled at startup.
var ErrBuilderUnavailable = errors.New("document builder unavailable")

// ErrUnsupportedType is returned for file extensions the builder does
// not handle.
var ErrUnsupportedType = errors.New("unsupported file type")

// Options tunes a build request. Only Model affects the built-in
// parsers; the remaining knobs belong to model-driven builders and are
// accepted without effect so callers can pass them uniformly.
type Options struct {
	Model                 string `json:"model,omitempty"`
	TocCheckPageNum       int    `json:"toc_check_page_num,omitempty"`
	MaxPageNumEachNode    int    `json:"max_page_num_each_node,omitempty"`
	MaxTokenNumEachNode   int    `json:"max_token_num_each_node,omitempty"`
	IfAddNodeID           string `json:"if_add_node_id,omitempty"`
	IfAddNodeSummary      string `json:"if_add_node_summary,omitempty"`
	IfAddDocDescription   string `json:"if_add_doc_description,omitempty"`
	IfAddNodeText         string `json:"if_add_node_text,omitempty"`
	IfThinning            bool   `json:"if_thinning,omitempty"`
	MinTokenThreshold     int    `json:"min_token_threshold,omitempty"`
	SummaryTokenThreshold int    `json:"summary_token_threshold,omitempty"`
}

func (o Options) model() string {
	if o.Model != "" {
		return o.Model
	}
	return builderModel
}

// CheckCapability reports whether the full builder may be used. It is
// meant to run once at process start; the result is passed into New
// explicitly. Setting TREEBRIDGE_DISABLE_BUILDER forces every text
// build through the fallback parser.
func CheckCapability() bool {
	return os.Getenv("TREEBRIDGE_DISABLE_BUILDER") == ""
}

// Builder dispatches build requests to the document parsers.
type Builder struct {
	available bool
	logger    *zap.Logger
}

func New(available bool, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{available: available, logger: logger}
}

// Available reports whether the full builder was enabled at startup.
func (b *Builder) Available() bool {
	return b.available
}

// BuildFile builds the outline tree for a document on disk. Supported
// extensions are .pdf, .md, .markdown, and .txt; plain text is routed
// through the markdown path.
func (b *Builder) BuildFile(path string, opts Options) (*BuildResult, error) {
	if !b.available {
		return nil, ErrBuilderUnavailable
	}

	start := time.Now()
	name := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(path))

	var (
		nodes     []ExternalNode
		pageCount int
		err       error
	)
	switch ext {
	case ".pdf":
		nodes, pageCount, err = buildPDF(path)
	case ".md", ".markdown":
		nodes, err = buildMarkdown(path)
	case ".txt":
		var data []byte
		data, err = os.ReadFile(path)
		if err == nil {
			return b.BuildText(string(data), name, opts)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", name, err)
	}

	return b.finish(name, nodes, pageCount, opts, start), nil
}

// BuildText builds the outline tree for raw text. The text is staged
// into a temporary markdown file for the full builder; when the builder
// is unavailable the heading-based fallback parser is used instead.
// The temporary file is removed whether or not the build succeeds.
func (b *Builder) BuildText(text, docName string, opts Options) (*BuildResult, error) {
	if !b.available {
		b.logger.Debug("builder unavailable, using fallback parser",
			zap.String("doc_name", docName))
		return Fallback(text, docName, DefaultPreviewLimit), nil
	}

	start := time.Now()

	tmp, err := os.CreateTemp("", "treebridge-*.md")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	nodes, err := buildMarkdown(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", docName, err)
	}
	return b.finish(docName, nodes, 0, opts, start), nil
}

// finish normalizes the builder output into a BuildResult.
func (b *Builder) finish(docName string, nodes []ExternalNode, pageCount int, opts Options, start time.Time) *BuildResult {
	structure := Transform(nodes)
	total, maxDepth := CountNodes(structure)

	elapsed := math.Round(time.Since(start).Seconds()*100) / 100
	b.logger.Debug("built document tree",
		zap.String("doc_name", docName),
		zap.Int("node_count", total),
		zap.Int("max_depth", maxDepth))

	return &BuildResult{
		DocName:   docName,
		Structure: structure,
		Metadata: Metadata{
			NodeCount:             total,
			MaxDepth:              maxDepth,
			ProcessingTimeSeconds: elapsed,
			Model:                 opts.model(),
			PageCount:             pageCount,
		},
	}
}
