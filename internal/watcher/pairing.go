package watcher

import "github.com/fsnotify/fsnotify"

// pairing folds the native event pairs that describe a single change.
// fsnotify reports a rename inside the tree as Rename(old) immediately
// followed by Create(new), and a fresh file as Create immediately followed
// by the Write of its first content. Only the previous event is remembered,
// so repeated writes are never merged.
type pairing struct {
	renamed string
	created string
}

// admit reports whether a qualifying event should be forwarded, and if not,
// why it was folded into the previous one.
func (p *pairing) admit(event fsnotify.Event) (bool, string) {
	renamed, created := p.renamed, p.created
	p.renamed, p.created = "", ""

	switch {
	case event.Has(fsnotify.Rename):
		p.renamed = event.Name
		return false, ""
	case event.Has(fsnotify.Create) && !event.Has(fsnotify.Write):
		if renamed != "" {
			return false, "rename target"
		}
		p.created = event.Name
		return true, ""
	case event.Has(fsnotify.Write) && event.Name != "" && event.Name == created:
		return false, "initial content"
	}
	return true, ""
}
