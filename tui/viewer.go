// Package tui is a terminal front-end for an engine.
package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/sarchlab/cachesim/cpu"
	"github.com/sarchlab/cachesim/mem/cache"
)

const helpText = "[yellow]s[-]/[yellow]space[-] step  " +
	"[yellow]r[-] run  [yellow]x[-] reset  [yellow]d[-] default program  " +
	"[yellow]m[-] mapping  [yellow]e[-] explanation  [yellow]c[-] clear history  " +
	"[yellow]q[-] quit"

// Viewer shows the registers, the cache, the memory and the history of an
// engine and steps it on key presses.
type Viewer struct {
	app  *tview.Application
	root *tview.Flex

	programView  *tview.TextView
	registerView *tview.Table
	cacheView    *tview.Table
	memoryView   *tview.Table
	lastView     *tview.TextView
	historyView  *tview.TextView
	statusView   *tview.TextView

	engine *cpu.Engine
}

// NewViewer creates a viewer for the engine.
func NewViewer(e *cpu.Engine) *Viewer {
	newTextView := func(title string) *tview.TextView {
		v := tview.NewTextView().SetDynamicColors(true)
		v.SetTitle(title).SetBorder(true)

		return v
	}

	newTable := func(title string) *tview.Table {
		t := tview.NewTable().SetBorders(false)
		t.SetTitle(title).SetBorder(true)

		return t
	}

	v := &Viewer{
		app:          tview.NewApplication(),
		programView:  newTextView("Programa"),
		registerView: newTable("Registradores"),
		cacheView:    newTable("Cache"),
		memoryView:   newTable("Memória"),
		lastView:     newTextView("Última operação"),
		historyView:  newTextView("Histórico"),
		statusView:   tview.NewTextView().SetDynamicColors(true),
		engine:       e,
	}

	v.lastView.SetWordWrap(true)
	v.historyView.ScrollToEnd()

	leftPane := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.programView, 0, 2, false).
		AddItem(v.registerView, 4, 0, false)

	middlePane := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.cacheView, 0, 1, false).
		AddItem(v.memoryView, 0, 1, false)

	rightPane := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.lastView, 0, 1, false).
		AddItem(v.historyView, 0, 2, false)

	body := tview.NewFlex().
		AddItem(leftPane, 0, 1, false).
		AddItem(middlePane, 0, 1, false).
		AddItem(rightPane, 0, 2, false)

	v.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(body, 0, 1, true).
		AddItem(tview.NewTextView().SetDynamicColors(true).SetText(helpText),
			1, 0, false).
		AddItem(v.statusView, 1, 0, false)

	v.root.SetInputCapture(v.handleKey)
	v.app.SetRoot(v.root, true)

	v.Draw()

	return v
}

// WithScreen makes the viewer draw on the given screen instead of the
// terminal.
func (v *Viewer) WithScreen(s tcell.Screen) *Viewer {
	v.app.SetScreen(s)
	return v
}

// Run shows the viewer until the user quits.
func (v *Viewer) Run() error {
	return v.app.Run()
}

// Stop closes the viewer.
func (v *Viewer) Stop() {
	v.app.Stop()
}

func (v *Viewer) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		v.Stop()
		return nil
	case tcell.KeyEnter:
		v.step()
		v.Draw()

		return nil
	}

	switch event.Rune() {
	case 's', ' ':
		v.step()
	case 'r':
		v.run()
	case 'x':
		v.engine.Reset()
		v.setStatus("Máquina reiniciada.")
	case 'd':
		v.loadDefaultProgram()
	case 'm':
		v.toggleMapping()
	case 'e':
		v.engine.SetExplanationMode(!v.engine.ExplanationMode())
		v.setStatus(fmt.Sprintf("Modo explicação: %t.", v.engine.ExplanationMode()))
	case 'c':
		v.engine.ClearHistory()
		v.setStatus("Histórico apagado.")
	case 'q':
		v.Stop()
		return nil
	default:
		return event
	}

	v.Draw()

	return nil
}

func (v *Viewer) step() {
	r, err := v.engine.Step()

	switch {
	case err != nil:
		v.setStatus("[red]" + tview.Escape(err.Error()) + "[-]")
	case r.Halted:
		v.setStatus("Não há mais instruções para executar.")
	default:
		v.setStatus("")
	}
}

func (v *Viewer) run() {
	results, err := v.engine.Run(0)
	if err != nil {
		v.setStatus("[red]" + tview.Escape(err.Error()) + "[-]")
		return
	}

	v.setStatus(fmt.Sprintf("%d instruções executadas.", len(results)))
}

func (v *Viewer) loadDefaultProgram() {
	if err := v.engine.LoadDefaultProgram(); err != nil {
		v.setStatus("[red]" + tview.Escape(err.Error()) + "[-]")
		return
	}

	v.setStatus("Programa padrão carregado.")
}

func (v *Viewer) toggleMapping() {
	mode := cache.Associative
	if v.engine.MappingMode() == cache.Associative {
		mode = cache.Direct
	}

	if err := v.engine.SetMappingMode(mode); err != nil {
		v.setStatus("[red]" + tview.Escape(err.Error()) + "[-]")
		return
	}

	v.setStatus(fmt.Sprintf("Mapeamento: %s. Cache invalidada.", mode))
}

func (v *Viewer) setStatus(text string) {
	v.statusView.SetText(text)
}

// Draw refreshes every panel from the engine.
func (v *Viewer) Draw() {
	v.drawProgram()
	v.drawRegisters()
	v.drawCache()
	v.drawMemory()
	v.drawLast()
	v.historyView.SetText(tview.Escape(v.engine.HistoryText()))
}

func (v *Viewer) drawProgram() {
	var b strings.Builder

	pc := v.engine.ProgramCounter()
	for i, s := range v.engine.Instructions() {
		marker := "  "
		if i == pc {
			marker = "[green]>[-] "
		}

		fmt.Fprintf(&b, "%s%d: %s\n", marker, i, tview.Escape(s))
	}

	v.programView.SetText(b.String())
}

func (v *Viewer) drawRegisters() {
	v.registerView.Clear()

	regs := v.engine.Registers()
	for i, name := range []string{"R1", "R2", "R3", "R4"} {
		v.registerView.SetCell(0, i, headerCell(name))
		v.registerView.SetCell(1, i,
			tview.NewTableCell(fmt.Sprint(regs[name])).
				SetAlign(tview.AlignRight))
	}
}

func (v *Viewer) drawCache() {
	v.cacheView.SetTitle(fmt.Sprintf("Cache (%s)", v.engine.MappingMode()))
	v.cacheView.Clear()

	for i, h := range []string{"linha", "V", "T", "D"} {
		v.cacheView.SetCell(0, i, headerCell(h)).SetFixed(1, 0)
	}

	for i, l := range v.engine.CacheLines() {
		valid := 0
		color := tcell.ColorGray
		if l.Valid {
			valid = 1
			color = tcell.ColorWhite
		}

		for j, content := range []any{i, valid, l.Tag, l.Data} {
			cell := tview.NewTableCell(fmt.Sprint(content)).
				SetAlign(tview.AlignRight).
				SetTextColor(color)
			v.cacheView.SetCell(i+1, j, cell)
		}
	}
}

func (v *Viewer) drawMemory() {
	v.memoryView.Clear()

	v.memoryView.SetCell(0, 0, headerCell("end."))
	v.memoryView.SetCell(0, 1, headerCell("valor"))
	v.memoryView.SetFixed(1, 0)

	for i, w := range v.engine.Memory() {
		v.memoryView.SetCell(i+1, 0,
			tview.NewTableCell(fmt.Sprint(i)).SetAlign(tview.AlignRight))
		v.memoryView.SetCell(i+1, 1,
			tview.NewTableCell(fmt.Sprint(w)).SetAlign(tview.AlignRight))
	}
}

func (v *Viewer) drawLast() {
	hits, misses := v.engine.HitMissCounts()

	var b strings.Builder
	if op := v.engine.LastOperationText(); op != "" {
		fmt.Fprintf(&b, "%s (%d ciclos)\n", tview.Escape(op),
			v.engine.LastCost())
	}

	fmt.Fprintf(&b, "Ciclos: %d  [green]Hits: %d[-]  [red]Misses: %d[-]\n",
		v.engine.TotalCycles(), hits, misses)

	if x := v.engine.LastExplanationText(); x != "" {
		fmt.Fprintf(&b, "\n%s", tview.Escape(x))
	}

	v.lastView.SetText(b.String())
}

func headerCell(text string) *tview.TableCell {
	return tview.NewTableCell(text).
		SetAttributes(tcell.AttrBold).
		SetAlign(tview.AlignCenter)
}
