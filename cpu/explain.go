package cpu

import (
	"fmt"
	"strings"

	"github.com/sarchlab/cachesim/isa"
	"github.com/sarchlab/cachesim/mem/cache"
)

// An Explainer turns a step into a verbose description. Implementations must
// be deterministic and must mention "HIT" for cache hits and "MISS" for
// cache misses.
type Explainer interface {
	Explain(r StepResult) string
}

// DefaultExplainer writes the explanations shown in explanation mode.
type DefaultExplainer struct{}

// Explain describes the step.
func (DefaultExplainer) Explain(r StepResult) string {
	if r.Halted {
		return "Não há mais instruções para executar."
	}

	var b strings.Builder

	switch r.Kind {
	case isa.KindLoad:
		explainLoad(&b, r)
	case isa.KindStore:
		explainStore(&b, r)
	case isa.KindAdd, isa.KindSub:
		explainALU(&b, r)
	}

	fmt.Fprintf(&b, " Custo: %d ciclos.", r.Cost)

	return b.String()
}

func explainLoad(b *strings.Builder, r StepResult) {
	if r.Hit {
		fmt.Fprintf(b, "LOAD com HIT: Memória[%d] já estava na linha %d "+
			"da cache (%s). Valor %d copiado da cache para %s.",
			r.Address, r.Line, modeText(r.MappingMode), r.Value, r.Dest)

		return
	}

	fmt.Fprintf(b, "LOAD com MISS: Memória[%d] não estava na cache (%s). "+
		"Valor %d lido da memória principal e gravado na linha %d.",
		r.Address, modeText(r.MappingMode), r.Value, r.Line)
	explainEviction(b, r)
	fmt.Fprintf(b, " %s recebe %d.", r.Dest, r.Value)
}

func explainStore(b *strings.Builder, r StepResult) {
	if r.Hit {
		fmt.Fprintf(b, "STORE com HIT: Memória[%d] já estava na linha %d "+
			"da cache (%s). Valor %d de %s escrito na cache e na memória.",
			r.Address, r.Line, modeText(r.MappingMode), r.Value, r.Src)

		return
	}

	fmt.Fprintf(b, "STORE com MISS: Memória[%d] não estava na cache (%s). "+
		"Valor %d de %s escrito na linha %d e na memória.",
		r.Address, modeText(r.MappingMode), r.Value, r.Src, r.Line)
	explainEviction(b, r)
}

func explainEviction(b *strings.Builder, r StepResult) {
	if !r.Evicted {
		return
	}

	fmt.Fprintf(b, " A linha %d continha Memória[%d], que foi substituída.",
		r.Line, r.EvictedTag)
}

func explainALU(b *strings.Builder, r StepResult) {
	src := aluSources(r)
	sign := "+"
	if r.Kind == isa.KindSub {
		sign = "-"
	}

	fmt.Fprintf(b, "%s: %s (%d) %s %s (%d) = %d, resultado em %s. "+
		"Sem acesso à cache.",
		r.Kind, src[0], r.OperandA, sign, src[1], r.OperandB, r.Value, r.Dest)
}

func modeText(m cache.MappingMode) string {
	switch m {
	case cache.Direct:
		return "mapeamento direto"
	case cache.Associative:
		return "mapeamento associativo"
	default:
		return m.String()
	}
}

func aluSources(r StepResult) [2]isa.Register {
	switch in := r.Instruction.(type) {
	case isa.Add:
		return [2]isa.Register{in.A, in.B}
	case isa.Sub:
		return [2]isa.Register{in.A, in.B}
	default:
		return [2]isa.Register{}
	}
}
