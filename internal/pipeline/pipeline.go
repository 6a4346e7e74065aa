// Package pipeline chains the front-end stages over one compilation
// unit. Stages never abort: they collect diagnostics so later stages
// (and the LSP server) see everything at once.
package pipeline

import (
	"github.com/sirupsen/logrus"

	"github.com/thelilylang/lily-sub007/internal/analyzer"
	"github.com/thelilylang/lily-sub007/internal/ast"
	"github.com/thelilylang/lily-sub007/internal/checked"
	"github.com/thelilylang/lily-sub007/internal/diagnostics"
	"github.com/thelilylang/lily-sub007/internal/mir"
	"github.com/thelilylang/lily-sub007/internal/mirgen"
)

// ParseFunc turns raw source into a raw AST plus collected lex/parse
// diagnostics. The surface parsers are external collaborators; a
// front-end links one in through RegisterParser.
type ParseFunc func(file string, src []byte) (*ast.Module, []*diagnostics.Diagnostic)

var parser ParseFunc

// RegisterParser installs the surface parser used by ParseProcessor.
func RegisterParser(p ParseFunc) { parser = p }

// Parser returns the registered surface parser, or nil.
func Parser() ParseFunc { return parser }

// PipelineContext carries the unit through the stages.
type PipelineContext struct {
	File    string
	AstRoot *ast.Module

	Analyzer *analyzer.Analyzer
	Checked  *checked.Scope
	Mir      *mir.Module

	Counter *diagnostics.Counter
	Errors  []*diagnostics.Diagnostic
}

// NewPipelineContext builds a context for one raw module.
func NewPipelineContext(file string, root *ast.Module, disableCodes []diagnostics.Code) *PipelineContext {
	return &PipelineContext{
		File:    file,
		AstRoot: root,
		Counter: diagnostics.NewCounter(disableCodes),
	}
}

// HasErrors reports whether any error-severity diagnostic was emitted.
func (ctx *PipelineContext) HasErrors() bool {
	return ctx.Counter.Errors > 0
}

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline is a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// Continue on errors to collect diagnostics from all stages
		// (the LSP needs both name-resolution and type errors).
	}
	return ctx
}

// Default builds the standard stage chain: checker, then MIR.
func Default() *Pipeline {
	return New(AnalyzerProcessor{}, MirProcessor{})
}

// AnalyzerProcessor runs semantic analysis.
type AnalyzerProcessor struct{}

func (AnalyzerProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.AstRoot == nil {
		return ctx
	}
	a := analyzer.New(ctx.File, ctx.Counter)
	ctx.Checked = a.CheckModule(ctx.AstRoot)
	ctx.Analyzer = a
	ctx.Errors = append(ctx.Errors, a.Diagnostics()...)
	logrus.WithFields(logrus.Fields{
		"file":   ctx.File,
		"errors": ctx.Counter.Errors,
	}).Debug("pipeline: analysis done")
	return ctx
}

// MirProcessor lowers the checked unit. Lowering is skipped when the
// checker reported errors: unknown types never reach MIR.
type MirProcessor struct{}

func (MirProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Checked == nil || ctx.HasErrors() {
		return ctx
	}
	module := mir.NewModule()
	module.BuildDIFile(ctx.File, ".")
	g := mirgen.New(module, ctx.Analyzer.Resolver())
	if err := g.GenerateUnit(ctx.Checked); err != nil {
		logrus.WithError(err).WithField("file", ctx.File).Error("pipeline: mir generation failed")
		return ctx
	}
	ctx.Mir = module
	logrus.WithField("file", ctx.File).Debug("pipeline: mir done")
	return ctx
}
