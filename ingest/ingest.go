// Package ingest turns dataset files into the raw node records and links a
// graph is built from.
package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/TFMV/insights/errors"
	"github.com/TFMV/insights/logger"
	"github.com/TFMV/insights/models"
	"gopkg.in/yaml.v3"
)

// Dataset is the decoded content of one input file.
type Dataset struct {
	Name   string
	Format string
	Nodes  []models.Record
	Links  []models.RawLink
}

// DataProcessor defines the interface that all data processors must implement
type DataProcessor interface {
	// ProcessData takes raw data bytes and returns the dataset it describes
	ProcessData(data []byte) (*Dataset, error)

	// GetName returns the name of the processor
	GetName() string
}

// document is the shared layout of JSON and YAML datasets. "edges" is read
// as an alias of "links".
type document struct {
	Nodes []map[string]any `json:"nodes" yaml:"nodes"`
	Links []any            `json:"links" yaml:"links"`
	Edges []any            `json:"edges" yaml:"edges"`
}

func (d document) dataset(name, format string) (*Dataset, error) {
	ds := &Dataset{
		Name:   name,
		Format: format,
		Nodes:  make([]models.Record, 0, len(d.Nodes)),
		Links:  make([]models.RawLink, 0, len(d.Links)+len(d.Edges)),
	}
	for i, n := range d.Nodes {
		if n == nil {
			return nil, errors.Wrapf(errors.ErrInvalidData, "node %d is empty", i)
		}
		ds.Nodes = append(ds.Nodes, models.Record(n))
	}

	raw := make([]any, 0, len(d.Links)+len(d.Edges))
	raw = append(raw, d.Links...)
	raw = append(raw, d.Edges...)
	for i, v := range raw {
		l, err := parseLink(v)
		if err != nil {
			return nil, errors.Wrapf(err, "link %d", i)
		}
		ds.Links = append(ds.Links, l)
	}
	return ds, nil
}

// parseLink accepts [source, target], [source, target, weight] or an object
// with source, target and an optional weight (or value).
func parseLink(v any) (models.RawLink, error) {
	var l models.RawLink
	switch t := v.(type) {
	case []any:
		if len(t) < 2 || len(t) > 3 {
			return l, errors.WithHint(
				errors.Wrapf(errors.ErrInvalidData, "link has %d elements", len(t)),
				"links are [source, target] or [source, target, weight]")
		}
		l = models.Link(t[0], t[1])
		if len(t) == 3 {
			l.Weight = models.ToFloat(t[2])
		}
	case map[string]any:
		l = models.Link(t["source"], t["target"])
		if w, ok := t["weight"]; ok {
			l.Weight = models.ToFloat(w)
		} else if w, ok := t["value"]; ok {
			l.Weight = models.ToFloat(w)
		}
	default:
		return l, errors.Wrapf(errors.ErrInvalidData, "unsupported link %T", v)
	}
	if l.Source == "" || l.Target == "" {
		return l, errors.Wrap(errors.ErrInvalidData, "link without source or target")
	}
	return l, nil
}

// JSONProcessor handles JSON data
type JSONProcessor struct{}

// NewJSONProcessor creates a new JSON processor
func NewJSONProcessor() *JSONProcessor {
	return &JSONProcessor{}
}

// GetName returns the name of the processor
func (p *JSONProcessor) GetName() string {
	return "JSON Processor"
}

// ProcessData processes JSON data. Numbers are kept as json.Number so large
// integer ids survive unchanged.
func (p *JSONProcessor) ProcessData(data []byte) (*Dataset, error) {
	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "error parsing JSON"), errors.ErrInvalidData)
	}
	return doc.dataset("JSON Import", "json")
}

// YAMLProcessor handles YAML data with the same layout as JSON.
type YAMLProcessor struct{}

// NewYAMLProcessor creates a new YAML processor
func NewYAMLProcessor() *YAMLProcessor {
	return &YAMLProcessor{}
}

// GetName returns the name of the processor
func (p *YAMLProcessor) GetName() string {
	return "YAML Processor"
}

// ProcessData processes YAML data
func (p *YAMLProcessor) ProcessData(data []byte) (*Dataset, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "error parsing YAML"), errors.ErrInvalidData)
	}
	return doc.dataset("YAML Import", "yaml")
}

// edgeList collects nodes from an edge-only format. Each node is sized by
// the number of links touching it.
type edgeList struct {
	ds    *Dataset
	nodes map[string]models.Record
}

func newEdgeList(name, format string) *edgeList {
	return &edgeList{
		ds:    &Dataset{Name: name, Format: format},
		nodes: make(map[string]models.Record),
	}
}

func (e *edgeList) node(id, label string) models.Record {
	if rec, ok := e.nodes[id]; ok {
		return rec
	}
	if label == "" {
		label = id
	}
	rec := models.Record{"id": id, "text": label, "size": 0.0}
	e.nodes[id] = rec
	e.ds.Nodes = append(e.ds.Nodes, rec)
	return rec
}

func (e *edgeList) link(source, target models.Record, weight float64) {
	source["size"] = source["size"].(float64) + 1
	target["size"] = target["size"].(float64) + 1
	e.ds.Links = append(e.ds.Links, models.WeightedLink(source["id"], target["id"], weight))
}

// CSVProcessor handles edge-list CSV data
type CSVProcessor struct{}

// NewCSVProcessor creates a new CSV processor
func NewCSVProcessor() *CSVProcessor {
	return &CSVProcessor{}
}

// GetName returns the name of the processor
func (p *CSVProcessor) GetName() string {
	return "CSV Processor"
}

// ProcessData processes CSV data. The header must name a source and a target
// column; weight and label columns are optional. A label names the source
// node of its row.
func (p *CSVProcessor) ProcessData(data []byte) (*Dataset, error) {
	reader := csv.NewReader(bytes.NewReader(data))

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "error reading CSV header"), errors.ErrInvalidData)
	}

	sourceIdx, targetIdx := -1, -1
	weightIdx := -1
	labelIdx := -1

	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "source", "from", "src":
			sourceIdx = i
		case "target", "to", "dst":
			targetIdx = i
		case "weight", "value", "strength":
			weightIdx = i
		case "label", "name", "title":
			labelIdx = i
		}
	}

	if sourceIdx == -1 || targetIdx == -1 {
		return nil, errors.WithHint(
			errors.Wrap(errors.ErrInvalidData, "CSV must contain source and target columns"),
			"name the columns source and target (or from/to, src/dst)")
	}

	list := newEdgeList("CSV Import", "csv")
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "error reading CSV row %d", line), errors.ErrInvalidData)
		}

		label := ""
		if labelIdx >= 0 {
			label = row[labelIdx]
		}
		source := list.node(strings.TrimSpace(row[sourceIdx]), label)
		target := list.node(strings.TrimSpace(row[targetIdx]), "")

		weight := 1.0
		if weightIdx >= 0 {
			if w := models.ToFloat(row[weightIdx]); w != 0 {
				weight = w
			}
		}
		list.link(source, target, weight)
	}
	return list.ds, nil
}

// LogProcessor handles line-oriented relationship logs such as "A -> B" or
// "X connected to Y".
type LogProcessor struct{}

// NewLogProcessor creates a new log processor
func NewLogProcessor() *LogProcessor {
	return &LogProcessor{}
}

// GetName returns the name of the processor
func (p *LogProcessor) GetName() string {
	return "Log Processor"
}

// separators are tried in order; the first one splitting a line in two wins.
var separators = []string{
	" -> ",
	" => ",
	" connected to ",
	" connects to ",
	" links to ",
	" linked to ",
	" - ",
}

// ProcessData processes log data. Lines matching no pattern are skipped.
func (p *LogProcessor) ProcessData(data []byte) (*Dataset, error) {
	list := newEdgeList("Log Import", "log")
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, sep := range separators {
			parts := strings.Split(line, sep)
			if len(parts) != 2 {
				continue
			}
			sourceID := strings.TrimSpace(parts[0])
			targetID := strings.TrimSpace(parts[1])
			if sourceID == "" || targetID == "" {
				break
			}
			list.link(list.node(sourceID, ""), list.node(targetID, ""), 1)
			break
		}
	}
	return list.ds, nil
}

// Formats lists the accepted format names.
func Formats() []string {
	return []string{"json", "yaml", "csv", "log"}
}

// GetProcessor returns the appropriate processor for the given format
func GetProcessor(format string) (DataProcessor, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONProcessor(), nil
	case "yaml", "yml":
		return NewYAMLProcessor(), nil
	case "csv":
		return NewCSVProcessor(), nil
	case "log", "txt":
		return NewLogProcessor(), nil
	default:
		return nil, errors.WithHintf(
			errors.Wrapf(errors.ErrInvalidData, "unsupported format: %s", format),
			"supported formats: %s", strings.Join(Formats(), ", "))
	}
}

// FormatOf derives the format name from a file extension.
func FormatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// ProcessFile reads path and decodes it with the processor for its
// extension.
func ProcessFile(path string) (*Dataset, error) {
	log := logger.Named("ingest")

	format := FormatOf(path)
	processor, err := GetProcessor(format)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	ds, err := processor.ProcessData(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to process %s", path)
	}
	ds.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	log.Debugw("dataset loaded",
		logger.FieldFile, path,
		logger.FieldFormat, format,
		"processor", processor.GetName(),
		"nodes", len(ds.Nodes),
		"links", len(ds.Links),
	)
	return ds, nil
}
