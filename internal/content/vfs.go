package content

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// Node is an entry of the in-memory file tree shown by the terminal and the
// file manager.
type Node struct {
	Name     string
	Dir      bool
	Size     string
	Data     string
	children map[string]*Node
}

// Children returns the entries of a directory, folders first, then by name.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Dir != out[j].Dir {
			return out[i].Dir
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// FS is a read-only tree rooted at "/".
type FS struct {
	root *Node
	home string
}

// Home returns the starting directory for new terminals and file managers.
func (fs *FS) Home() string {
	return fs.home
}

// Lookup resolves an absolute, cleaned path.
func (fs *FS) Lookup(p string) (*Node, error) {
	p = path.Clean("/" + p)
	n := fs.root
	if p == "/" {
		return n, nil
	}
	for _, part := range strings.Split(strings.TrimPrefix(p, "/"), "/") {
		if !n.Dir {
			return nil, fmt.Errorf("%s: not a directory", p)
		}
		next, ok := n.children[part]
		if !ok {
			return nil, fmt.Errorf("%s: no such file or directory", p)
		}
		n = next
	}
	return n, nil
}

// Resolve joins arg onto cwd the way a shell would, expanding "~".
func (fs *FS) Resolve(cwd, arg string) string {
	switch {
	case arg == "" || arg == "~":
		return fs.home
	case strings.HasPrefix(arg, "~/"):
		return path.Join(fs.home, arg[2:])
	case strings.HasPrefix(arg, "/"):
		return path.Clean(arg)
	default:
		return path.Join(cwd, arg)
	}
}

// Display shortens paths under home to "~".
func (fs *FS) Display(p string) string {
	if p == fs.home {
		return "~"
	}
	if strings.HasPrefix(p, fs.home+"/") {
		return "~" + p[len(fs.home):]
	}
	return p
}

func (fs *FS) add(p string, n *Node) {
	parent, err := fs.Lookup(path.Dir(p))
	if err != nil || !parent.Dir {
		panic(fmt.Sprintf("vfs: bad parent for %s", p))
	}
	n.Name = path.Base(p)
	if n.Dir {
		n.children = make(map[string]*Node)
	}
	parent.children[n.Name] = n
}

// DefaultFS builds the sample tree.
func DefaultFS(user string) *FS {
	fs := &FS{
		root: &Node{Name: "/", Dir: true, children: make(map[string]*Node)},
		home: "/home/" + user,
	}
	dirs := []string{"/bin", "/etc", "/home", fs.home, "/tmp"}
	for _, d := range []string{"Documents", "Pictures", "Downloads"} {
		dirs = append(dirs, path.Join(fs.home, d))
	}
	for _, d := range dirs {
		fs.add(d, &Node{Dir: true})
	}

	files := []struct {
		path, size, data string
	}{
		{path.Join(fs.home, "readme.txt"), "2.5 KB", "Welcome to deskshell.\nType 'help' for a list of commands."},
		{path.Join(fs.home, "config.ini"), "1.8 KB", "[desktop]\ntheme=blue\nicons=true"},
		{path.Join(fs.home, "screenshot.png"), "345 KB", ""},
		{path.Join(fs.home, "Documents", "notes.txt"), "612 B", "Remember to tile the windows."},
		{path.Join(fs.home, "Documents", "todo.txt"), "204 B", "- try tabs\n- change the background"},
		{path.Join(fs.home, "Pictures", "wallpaper.png"), "8.7 MB", ""},
		{path.Join(fs.home, "Downloads", "installer.sh"), "1.2 GB", "#!/bin/sh\necho installing"},
		{"/etc/hostname", "9 B", "deskshell"},
		{"/etc/motd", "64 B", "Have a productive session."},
	}
	for _, f := range files {
		fs.add(f.path, &Node{Size: f.size, Data: f.data})
	}
	return fs
}
