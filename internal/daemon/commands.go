package daemon

import (
	"fmt"

	"github.com/1broseidon/deskshell/internal/arrange"
	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/ipc"
	"github.com/1broseidon/deskshell/internal/journal"
	"github.com/1broseidon/deskshell/internal/shell"
	"github.com/1broseidon/deskshell/internal/wm"
)

type commandHandler func(d *Desktop, req *ipc.Request) (any, error)

var commandHandlers = map[ipc.CommandType]commandHandler{
	ipc.CommandReload:      (*Desktop).cmdReload,
	ipc.CommandGetStatus:   (*Desktop).cmdStatus,
	ipc.CommandListWindows: (*Desktop).cmdListWindows,
	ipc.CommandNewWindow:   (*Desktop).cmdNewWindow,
	ipc.CommandClose:       windowOp("close", (*wm.Manager).CloseWindow),
	ipc.CommandMinimize:    windowOp("minimize", (*wm.Manager).Minimize),
	ipc.CommandRestore:     windowOp("restore", (*wm.Manager).Restore),
	ipc.CommandMaximize:    windowOp("maximize", (*wm.Manager).ToggleMaximize),
	ipc.CommandFocus:       (*Desktop).cmdFocus,
	ipc.CommandMove:        (*Desktop).cmdMove,
	ipc.CommandResize:      (*Desktop).cmdResize,
	ipc.CommandSetTitle:    (*Desktop).cmdSetTitle,
	ipc.CommandAddTab:      (*Desktop).cmdAddTab,
	ipc.CommandRemoveTab:   (*Desktop).cmdRemoveTab,
	ipc.CommandSwitchTab:   (*Desktop).cmdSwitchTab,
	ipc.CommandArrange:     (*Desktop).cmdArrange,
	ipc.CommandRunAction:   (*Desktop).cmdRunAction,
	ipc.CommandExec:        (*Desktop).cmdExec,
	ipc.CommandSetTheme:    (*Desktop).cmdSetTheme,
	ipc.CommandListThemes:  (*Desktop).cmdListThemes,
}

// HandleIPC runs one request. It must only be called on the loop goroutine.
func (d *Desktop) HandleIPC(req *ipc.Request) *ipc.Response {
	d.journal.Log(journal.EventIPC, 0, map[string]any{"command": string(req.Command)})

	h, ok := commandHandlers[req.Command]
	if !ok {
		return ipc.NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
	data, err := h(d, req)
	if err != nil {
		d.logger.Debug("ipc command failed", "command", req.Command, "error", err)
		return ipc.NewErrorResponse(err.Error())
	}
	resp, err := ipc.NewOKResponse(data)
	if err != nil {
		return ipc.NewErrorResponse(err.Error())
	}
	return resp
}

func (d *Desktop) window(id uint64) (*wm.Window, error) {
	w := d.wm.Window(wm.ID(id))
	if w == nil {
		return nil, fmt.Errorf("window %d not found", id)
	}
	return w, nil
}

// windowOp adapts a manager operation on one window id.
func windowOp(name string, op func(*wm.Manager, wm.ID) bool) commandHandler {
	return func(d *Desktop, req *ipc.Request) (any, error) {
		p, err := ipc.DecodePayload[ipc.WindowPayload](req)
		if err != nil {
			return nil, err
		}
		if _, err := d.window(p.ID); err != nil {
			return nil, err
		}
		if !op(d.wm, wm.ID(p.ID)) {
			return nil, fmt.Errorf("cannot %s window %d", name, p.ID)
		}
		return nil, nil
	}
}

func (d *Desktop) cmdReload(_ *ipc.Request) (any, error) {
	return nil, d.Reload()
}

func (d *Desktop) cmdStatus(_ *ipc.Request) (any, error) {
	status := ipc.StatusData{
		Session:       d.session,
		Frontend:      d.frontendName(),
		Theme:         d.shell.Theme(),
		WindowCount:   d.wm.Len(),
		Menu:          d.wm.Menu().Kind.String(),
		Transaction:   d.wm.Transaction().Kind.String(),
		UptimeSeconds: int64(d.now().Sub(d.started).Seconds()),
		DaemonRunning: true,
	}
	if id, ok := d.wm.ActiveID(); ok {
		status.ActiveWindow = uint64(id)
	}
	return status, nil
}

func (d *Desktop) describe(w *wm.Window, z int) ipc.WindowInfo {
	g := w.Geometry()
	info := ipc.WindowInfo{
		ID:        uint64(w.ID()),
		Title:     w.Title(),
		Kind:      w.Kind().String(),
		X:         g.X,
		Y:         g.Y,
		Width:     g.Width,
		Height:    g.Height,
		Z:         z,
		Minimized: w.Minimized(),
		Maximized: w.Maximized(),
	}
	if active, ok := d.wm.ActiveID(); ok && active == w.ID() {
		info.Active = true
	}
	if parent, ok := w.ParentID(); ok {
		info.Parent = uint64(parent)
	}
	if tabs := w.Tabs(); tabs != nil && tabs.Len() > 0 {
		for _, child := range tabs.Children() {
			info.Tabs = append(info.Tabs, uint64(child))
		}
		info.ActiveTab = tabs.ActiveIndex()
	}
	return info
}

func (d *Desktop) cmdListWindows(_ *ipc.Request) (any, error) {
	z := make(map[wm.ID]int)
	for i, id := range d.wm.ZOrder() {
		z[id] = i
	}
	data := ipc.WindowsData{Windows: []ipc.WindowInfo{}}
	var tabs []ipc.WindowInfo
	for _, w := range d.wm.TopLevel() {
		data.Windows = append(data.Windows, d.describe(w, z[w.ID()]))
		for _, t := range d.wm.TabWindows(w.ID()) {
			tabs = append(tabs, d.describe(t, -1))
		}
	}
	data.Windows = append(data.Windows, tabs...)
	return data, nil
}

func (d *Desktop) cmdNewWindow(req *ipc.Request) (any, error) {
	p, err := ipc.DecodePayload[ipc.NewWindowPayload](req)
	if err != nil {
		return nil, err
	}
	kind, err := wm.ParseContentKind(p.Kind)
	if err != nil {
		return nil, err
	}
	l, ok := d.shell.Launchers[kind]
	if !ok {
		l = shell.DefaultLaunchers()[kind]
	}
	g := l.Geometry
	if p.X != nil {
		g.X = *p.X
	}
	if p.Y != nil {
		g.Y = *p.Y
	}
	if p.Width != nil {
		g.Width = *p.Width
	}
	if p.Height != nil {
		g.Height = *p.Height
	}
	title := l.Title
	if p.Title != "" {
		title = p.Title
	}
	id := d.wm.CreateWindow(g, title, kind)
	return ipc.NewWindowData{ID: uint64(id)}, nil
}

// cmdFocus raises and activates a window. A minimized window is restored; a
// tab is selected in its parent first.
func (d *Desktop) cmdFocus(req *ipc.Request) (any, error) {
	p, err := ipc.DecodePayload[ipc.WindowPayload](req)
	if err != nil {
		return nil, err
	}
	w, err := d.window(p.ID)
	if err != nil {
		return nil, err
	}
	if parent, ok := w.ParentID(); ok {
		for i, child := range d.wm.Window(parent).Tabs().Children() {
			if child == w.ID() {
				d.wm.SwitchTab(parent, i)
				break
			}
		}
		w = d.wm.Window(parent)
	}
	if w.Minimized() {
		d.wm.Restore(w.ID())
	}
	d.wm.BringToFront(w.ID())
	if !d.wm.SetActive(w.ID()) {
		return nil, fmt.Errorf("cannot focus window %d", p.ID)
	}
	return nil, nil
}

func (d *Desktop) cmdMove(req *ipc.Request) (any, error) {
	p, err := ipc.DecodePayload[ipc.MovePayload](req)
	if err != nil {
		return nil, err
	}
	if _, err := d.window(p.ID); err != nil {
		return nil, err
	}
	if !d.wm.Move(wm.ID(p.ID), p.X, p.Y) {
		return nil, fmt.Errorf("cannot move window %d", p.ID)
	}
	return nil, nil
}

func (d *Desktop) cmdResize(req *ipc.Request) (any, error) {
	p, err := ipc.DecodePayload[ipc.ResizePayload](req)
	if err != nil {
		return nil, err
	}
	if _, err := d.window(p.ID); err != nil {
		return nil, err
	}
	if !d.wm.Resize(wm.ID(p.ID), p.Width, p.Height) {
		return nil, fmt.Errorf("cannot resize window %d", p.ID)
	}
	return nil, nil
}

func (d *Desktop) cmdSetTitle(req *ipc.Request) (any, error) {
	p, err := ipc.DecodePayload[ipc.TitlePayload](req)
	if err != nil {
		return nil, err
	}
	if _, err := d.window(p.ID); err != nil {
		return nil, err
	}
	d.wm.SetTitle(wm.ID(p.ID), p.Title)
	return nil, nil
}

func (d *Desktop) cmdAddTab(req *ipc.Request) (any, error) {
	p, err := ipc.DecodePayload[ipc.TabPayload](req)
	if err != nil {
		return nil, err
	}
	if _, err := d.window(p.Parent); err != nil {
		return nil, err
	}
	if _, err := d.window(p.Child); err != nil {
		return nil, err
	}
	if !d.wm.AddTab(wm.ID(p.Parent), wm.ID(p.Child)) {
		return nil, fmt.Errorf("window %d cannot become a tab of window %d", p.Child, p.Parent)
	}
	return nil, nil
}

func (d *Desktop) cmdRemoveTab(req *ipc.Request) (any, error) {
	p, err := ipc.DecodePayload[ipc.TabPayload](req)
	if err != nil {
		return nil, err
	}
	if _, err := d.window(p.Parent); err != nil {
		return nil, err
	}
	if !d.wm.RemoveTab(wm.ID(p.Parent), p.Index) {
		return nil, fmt.Errorf("window %d has no tab %d", p.Parent, p.Index)
	}
	return nil, nil
}

func (d *Desktop) cmdSwitchTab(req *ipc.Request) (any, error) {
	p, err := ipc.DecodePayload[ipc.TabPayload](req)
	if err != nil {
		return nil, err
	}
	if _, err := d.window(p.Parent); err != nil {
		return nil, err
	}
	if !d.wm.SwitchTab(wm.ID(p.Parent), p.Index) {
		return nil, fmt.Errorf("window %d has no tab %d", p.Parent, p.Index)
	}
	return nil, nil
}

func (d *Desktop) cmdArrange(req *ipc.Request) (any, error) {
	p, err := ipc.DecodePayload[ipc.ArrangePayload](req)
	if err != nil {
		return nil, err
	}
	mode, err := arrange.ParseMode(p.Mode)
	if err != nil {
		return nil, err
	}
	if err := d.wm.Arrange(mode, d.shell.Arrange); err != nil {
		return nil, err
	}
	return nil, nil
}

func (d *Desktop) cmdRunAction(req *ipc.Request) (any, error) {
	p, err := ipc.DecodePayload[ipc.ActionPayload](req)
	if err != nil {
		return nil, err
	}
	a, err := shell.ParseAction(p.Action)
	if err != nil {
		return nil, err
	}
	ctx := &shell.Context{WM: d.wm, Shell: d.shell, At: geom.Point{X: p.X, Y: p.Y}, Now: d.now()}
	ok := shell.Execute(a, ctx)
	d.recordAction(a, ctx, ok)
	if ctx.Err != nil {
		return nil, fmt.Errorf("%s: %w", a, ctx.Err)
	}
	if !ok {
		return nil, fmt.Errorf("%s had nothing to act on", a)
	}
	return ipc.ActionData{Launched: uint64(ctx.Launched)}, nil
}

// cmdExec types a line into a terminal. Addressing a window with tabs runs
// the line in its selected tab.
func (d *Desktop) cmdExec(req *ipc.Request) (any, error) {
	p, err := ipc.DecodePayload[ipc.ExecPayload](req)
	if err != nil {
		return nil, err
	}
	if _, err := d.window(p.ID); err != nil {
		return nil, err
	}
	w := d.wm.ContentWindow(wm.ID(p.ID))
	if w.Kind() != wm.KindTerminal {
		return nil, fmt.Errorf("window %d is a %s window, not a terminal", w.ID(), w.Kind())
	}
	res := d.terminal.Run(w, p.Line)
	out := ipc.ExecData{Output: res.Output}
	if out.Output == nil {
		out.Output = []string{}
	}
	if res.Close {
		out.Closed = d.wm.CloseWindow(w.ID())
	}
	return out, nil
}

func (d *Desktop) cmdSetTheme(req *ipc.Request) (any, error) {
	p, err := ipc.DecodePayload[ipc.ThemePayload](req)
	if err != nil {
		return nil, err
	}
	if !d.shell.SetTheme(p.Name) {
		return nil, fmt.Errorf("unknown theme %q", p.Name)
	}
	if !p.Save {
		return nil, nil
	}
	cfg := *d.cfg
	cfg.Theme = p.Name
	if err := cfg.SaveTo(d.configPath); err != nil {
		return nil, fmt.Errorf("failed to save theme: %w", err)
	}
	d.cfg = &cfg
	return nil, nil
}

func (d *Desktop) cmdListThemes(_ *ipc.Request) (any, error) {
	return ipc.ThemesData{Themes: d.shell.Themes(), Current: d.shell.Theme()}, nil
}
