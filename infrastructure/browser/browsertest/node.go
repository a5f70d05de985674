package browsertest

import (
	"strings"
)

// Node is one element of a fake page. Selectors lists every CSS selector the
// element answers to; a query step matches when its selector (or one of its
// comma-separated alternatives) is listed, or is "*".
type Node struct {
	Selectors []string
	Text      string
	Hidden    bool
	Attrs     map[string]string
	Value     string
	Options   []string
	Checked   bool
	Files     []string
	Children  []*Node

	// Frame is the content document of an iframe
	Frame *Node

	OnClick func(b *Browser, n *Node)
	OnHover func(b *Browser, n *Node)
	OnDrop  func(b *Browser, src, dst *Node)

	parent *Node
}

// El creates a node answering to the given selectors
func El(selectors ...string) *Node {
	return &Node{Selectors: selectors, Attrs: map[string]string{}}
}

// Link creates an anchor with an href that the fake follows on click
func Link(href, text string, selectors ...string) *Node {
	sel := append([]string{"a", `a[href="` + href + `"]`}, selectors...)
	return El(sel...).WithAttr("href", href).WithText(text)
}

// Page creates a document root with a visible body holding children
func Page(title string, children ...*Node) *Node {
	body := El("body").Append(children...)
	root := El("html").Append(body)
	root.Attrs["title"] = title
	return root
}

func (n *Node) WithText(text string) *Node {
	n.Text = text
	return n
}

func (n *Node) WithAttr(name, value string) *Node {
	n.Attrs[name] = value
	return n
}

func (n *Node) WithOptions(options ...string) *Node {
	n.Options = options
	return n
}

func (n *Node) WithFrame(doc *Node) *Node {
	n.Frame = doc
	return n
}

// Hide marks the node as not rendered
func (n *Node) Hide() *Node {
	n.Hidden = true
	return n
}

func (n *Node) Clicked(fn func(b *Browser, n *Node)) *Node {
	n.OnClick = fn
	return n
}

func (n *Node) Hovered(fn func(b *Browser, n *Node)) *Node {
	n.OnHover = fn
	return n
}

func (n *Node) Dropped(fn func(b *Browser, src, dst *Node)) *Node {
	n.OnDrop = fn
	return n
}

// Append adds children and returns n
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		c.parent = n
		n.Children = append(n.Children, c)
	}
	return n
}

// Remove detaches child from n
func (n *Node) Remove(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Parent returns the enclosing element
func (n *Node) Parent() *Node { return n.parent }

func (n *Node) matches(selector string) bool {
	for _, alt := range strings.Split(selector, ",") {
		alt = strings.TrimSpace(alt)
		if alt == "*" {
			return true
		}
		for _, s := range n.Selectors {
			if s == alt {
				return true
			}
		}
	}
	return false
}

// InnerText is the trimmed text of n and its descendants
func (n *Node) InnerText() string {
	parts := make([]string, 0, len(n.Children)+1)
	if t := strings.TrimSpace(n.Text); t != "" {
		parts = append(parts, t)
	}
	for _, c := range n.Children {
		if t := c.InnerText(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func (n *Node) visible() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.Hidden {
			return false
		}
	}
	return true
}

// descendants walks the subtree below n in document order
func (n *Node) descendants(visit func(*Node)) {
	for _, c := range n.Children {
		visit(c)
		c.descendants(visit)
	}
}
