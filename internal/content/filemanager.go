package content

import (
	"path"
	"time"

	"github.com/1broseidon/deskshell/internal/draw"
	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/input"
	"github.com/1broseidon/deskshell/internal/wm"
)

const fileRowHeight = 30

// FileManager lists the in-memory tree. A click selects a row, a double
// click opens a folder.
type FileManager struct {
	Palette *Palette
	FS      *FS
}

type fileManagerState struct {
	dir      string
	selected int
}

type fileRow struct {
	label string
	size  string
	kind  string
	path  string
	dir   bool
}

func (f *FileManager) state(w *wm.Window) *fileManagerState {
	if st, ok := w.Content.(*fileManagerState); ok {
		return st
	}
	st := &fileManagerState{dir: f.FS.Home(), selected: -1}
	w.Content = st
	return st
}

// Dir returns the folder a file manager window shows.
func (f *FileManager) Dir(w *wm.Window) string {
	return f.state(w).dir
}

func (f *FileManager) rows(dir string) []fileRow {
	var out []fileRow
	if dir != "/" {
		out = append(out, fileRow{label: "..", kind: "Folder", path: path.Dir(dir), dir: true})
	}
	n, err := f.FS.Lookup(dir)
	if err != nil {
		return out
	}
	for _, c := range n.Children() {
		row := fileRow{label: c.Name, size: c.Size, kind: "File", path: path.Join(dir, c.Name), dir: c.Dir}
		if c.Dir {
			row.kind = "Folder"
		}
		out = append(out, row)
	}
	return out
}

func (f *FileManager) HandlePointer(w *wm.Window, p input.Pointer) input.Effect {
	if p.Button != input.ButtonLeft {
		return input.Effect{}
	}
	st := f.state(w)
	// The first row is the path bar.
	index := p.Local.Y/fileRowHeight - 1
	rows := f.rows(st.dir)
	if index < 0 || index >= len(rows) {
		st.selected = -1
		return input.Effect{}
	}
	st.selected = index
	if p.Double && rows[index].dir {
		st.dir = rows[index].path
		st.selected = -1
		return input.Effect{Title: "Files - " + f.FS.Display(st.dir)}
	}
	return input.Effect{}
}

func (f *FileManager) Render(w *wm.Window, area geom.Rect, _ time.Time) draw.List {
	st := f.state(w)
	var l draw.List
	l.Fill(area, f.Palette.Background)

	bar := geom.Rect{X: area.X, Y: area.Y, Width: area.Width, Height: fileRowHeight}
	l.Fill(bar, f.Palette.Panel)
	l.TextIn(bar, 10, f.FS.Display(st.dir), f.Palette.Text)

	sizeX := area.X + area.Width*6/10
	kindX := area.X + area.Width*8/10
	for i, row := range f.rows(st.dir) {
		r := geom.Rect{X: area.X, Y: area.Y + (i+1)*fileRowHeight, Width: area.Width, Height: fileRowHeight}
		if r.Y >= area.Bottom() {
			break
		}
		if i == st.selected {
			l.Fill(r, f.Palette.Selection)
		}
		icon := geom.Rect{X: r.X + 10, Y: r.Y + 8, Width: 14, Height: 14}
		if row.dir {
			l.Fill(icon, f.Palette.Accent)
		} else {
			l.Stroke(icon, f.Palette.Muted)
		}
		l.TextIn(geom.Rect{X: r.X + 30, Y: r.Y, Width: sizeX - r.X - 30, Height: r.Height}, 0, row.label, f.Palette.Text)
		l.TextIn(geom.Rect{X: sizeX, Y: r.Y, Width: kindX - sizeX, Height: r.Height}, 0, row.size, f.Palette.Muted)
		l.TextIn(geom.Rect{X: kindX, Y: r.Y, Width: area.Right() - kindX, Height: r.Height}, 0, row.kind, f.Palette.Muted)
	}
	return l
}
