package payload

import (
	"strings"

	"github.com/chainreactors/intruder/pkg"
	"github.com/chainreactors/words"
	"github.com/chainreactors/words/rule"
)

// Processor rewrites every payload of a set before the attack.
type Processor struct {
	Prefix   string
	Suffix   string
	Upper    bool
	Lower    bool
	Replaces map[string]string
	Skips    []string
	Rules    *rule.Program
}

func (p *Processor) Empty() bool {
	return p == nil || (p.Prefix == "" && p.Suffix == "" && !p.Upper && !p.Lower &&
		len(p.Replaces) == 0 && len(p.Skips) == 0 && (p.Rules == nil || len(p.Rules.Expressions) == 0))
}

// Fns returns the processor as a words function chain. Skips run first.
func (p *Processor) Fns() []words.WordFunc {
	var fns []words.WordFunc
	if len(p.Skips) > 0 {
		skips := p.Skips
		fns = append(fns, func(s string) []string {
			for _, skip := range skips {
				if strings.Contains(s, skip) {
					return nil
				}
			}
			return []string{s}
		})
	}
	if len(p.Replaces) > 0 {
		replaces := p.Replaces
		fns = append(fns, func(s string) []string {
			for k, v := range replaces {
				s = strings.ReplaceAll(s, k, v)
			}
			return []string{s}
		})
	}
	if p.Upper {
		fns = append(fns, pkg.WrapWordsFunc(strings.ToUpper))
	}
	if p.Lower {
		fns = append(fns, pkg.WrapWordsFunc(strings.ToLower))
	}
	if p.Prefix != "" || p.Suffix != "" {
		prefix, suffix := p.Prefix, p.Suffix
		fns = append(fns, pkg.WrapWordsFunc(func(s string) string {
			return prefix + s + suffix
		}))
	}
	return fns
}

// Process returns a new set with proc applied to every item. Blank items are passed
// through unchanged so they are still filtered out by Active.
// Every rule output runs through the function chain, a word dropped by any function is gone.
func Process(s *Set, proc *Processor) *Set {
	if proc.Empty() {
		return s
	}

	fns := proc.Fns()
	items := []string{}
	for _, item := range s.Items {
		if strings.TrimSpace(item) == "" {
			items = append(items, item)
			continue
		}
		if proc.Rules == nil || len(proc.Rules.Expressions) == 0 {
			items = append(items, chain(fns, item)...)
			continue
		}
		for w := range rule.RunAsStream(proc.Rules.Expressions, item) {
			// 空字符串为rule的skip标记
			if w == "" {
				continue
			}
			items = append(items, chain(fns, w)...)
		}
	}

	return &Set{Kind: s.Kind, Range: s.Range, Mask: s.Mask, Items: items}
}

// chain feeds every output of one function into the next, an empty result stops the word.
func chain(fns []words.WordFunc, w string) []string {
	ws := []string{w}
	for _, f := range fns {
		var next []string
		for _, cur := range ws {
			next = append(next, f(cur)...)
		}
		if len(next) == 0 {
			return nil
		}
		ws = next
	}
	return ws
}
