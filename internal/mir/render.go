package mir

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Renderer produces the ANSI-colored canonical textual form of a MIR
// module. Color is dropped when the destination is not a terminal.
type Renderer struct {
	typeColor    *color.Color
	keywordColor *color.Color
	nameColor    *color.Color
	enabled      bool
}

// NewRenderer builds a renderer, enabling color when stdout is a tty.
func NewRenderer() *Renderer {
	return NewRendererWithColor(isatty.IsTerminal(os.Stdout.Fd()))
}

// NewRendererWithColor builds a renderer with color forced on or off.
func NewRendererWithColor(enabled bool) *Renderer {
	return &Renderer{
		typeColor:    color.New(color.FgCyan),
		keywordColor: color.New(color.FgMagenta),
		nameColor:    color.New(color.FgYellow),
		enabled:      enabled,
	}
}

func (r *Renderer) paint(c *color.Color, s string) string {
	if !r.enabled {
		return s
	}
	return c.Sprint(s)
}

// RenderDt renders one data type in its canonical colored form.
func (r *Renderer) RenderDt(dt *Dt) string {
	switch dt.Kind {
	case DtKindPtr:
		return "*" + r.RenderDt(dt.Inner)
	case DtKindRef:
		return "&" + r.RenderDt(dt.Inner)
	case DtKindList:
		return "{" + r.RenderDt(dt.Inner) + "}"
	case DtKindTrace:
		return r.paint(r.keywordColor, "struct") + " {" + r.RenderDt(dt.Inner) + ", " + r.paint(r.typeColor, "usize") + "}"
	case DtKindArray:
		if dt.Array.LenIsUndef {
			return "[? x " + r.RenderDt(dt.Array.Dt) + "]"
		}
		return fmt.Sprintf("[%d x %s]", dt.Array.Len, r.RenderDt(dt.Array.Dt))
	case DtKindTuple:
		return "(" + r.renderDts(dt.Tuple) + ")"
	case DtKindStruct:
		return r.paint(r.keywordColor, "struct") + " {" + r.renderDts(dt.Struct) + "}"
	case DtKindStructName:
		return r.paint(r.keywordColor, "struct") + " " + r.paint(r.nameColor, dt.StructName)
	case DtKindResult:
		return r.paint(r.keywordColor, "result") + " " + r.RenderDt(dt.Result.Ok) + " " + r.RenderDt(dt.Result.Err)
	default:
		return r.paint(r.typeColor, dt.String())
	}
}

func (r *Renderer) renderDts(dts []*Dt) string {
	parts := make([]string, len(dts))
	for i, dt := range dts {
		parts[i] = r.RenderDt(dt)
	}
	return strings.Join(parts, ", ")
}

// RenderModule renders every finished definition in insertion order.
func (r *Renderer) RenderModule(m *Module) string {
	var out strings.Builder
	m.Insts.Range(func(_ string, inst *Inst) bool {
		switch inst.Kind {
		case InstKindFun:
			r.renderFun(&out, inst.Fun)
		case InstKindConst:
			fmt.Fprintf(&out, "%s %s = %s\n", r.paint(r.keywordColor, "const"), r.paint(r.nameColor, inst.Const.Name), inst.Const.Val)
		case InstKindStruct:
			fmt.Fprintf(&out, "%s %s {%s}\n", r.paint(r.keywordColor, "struct"), r.paint(r.nameColor, inst.Struct.Name), r.renderDts(inst.Struct.Fields))
		}
		return true
	})
	return out.String()
}

func (r *Renderer) renderFun(out *strings.Builder, fun *FunInst) {
	params := make([]string, len(fun.Params))
	for i, p := range fun.Params {
		params[i] = r.RenderDt(p)
	}
	fmt.Fprintf(out, "%s %s(%s) %s {\n",
		r.paint(r.keywordColor, "fun"),
		r.paint(r.nameColor, fun.Name),
		strings.Join(params, ", "),
		r.RenderDt(fun.ReturnDt))
	for _, block := range fun.Blocks {
		fmt.Fprintf(out, "%s:\n", block.Name)
		for _, inst := range block.Insts {
			fmt.Fprintf(out, "  %s\n", inst)
		}
	}
	out.WriteString("}\n")
}
