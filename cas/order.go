package cas

import (
	"math/big"
	"sort"
	"strings"
)

// termShape splits a term into the exponents of its bare symbols and a string
// key for every other factor.
func termShape(t Expr) (map[string]*big.Rat, string) {
	_, r := splitCoeff(t)
	factors := []Expr{r}
	if m, ok := r.(*Mul); ok {
		factors = m.factors
	}
	exps := map[string]*big.Rat{}
	var rest []string
	bump := func(name string, by *big.Rat) {
		if cur, ok := exps[name]; ok {
			cur.Add(cur, by)
			return
		}
		exps[name] = new(big.Rat).Set(by)
	}
	for _, f := range factors {
		switch v := f.(type) {
		case *Num:
			if !v.IsOne() {
				rest = append(rest, v.String())
			}
		case *Sym:
			bump(v.name, big.NewRat(1, 1))
		case *Pow:
			s, sok := v.base.(*Sym)
			n, nok := v.exp.(*Num)
			if sok && nok {
				bump(s.name, n.val)
				continue
			}
			rest = append(rest, v.String())
		default:
			rest = append(rest, f.String())
		}
	}
	return exps, strings.Join(rest, "*")
}

// compareTerms orders the terms of a sum: lexicographically by descending
// powers of the sorted symbols, then by the remaining factors.
func compareTerms(a, b Expr) int {
	ea, ra := termShape(a)
	eb, rb := termShape(b)
	names := make([]string, 0, len(ea)+len(eb))
	for n := range ea {
		names = append(names, n)
	}
	for n := range eb {
		if _, dup := ea[n]; !dup {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	zeroRat := new(big.Rat)
	for _, n := range names {
		x, y := ea[n], eb[n]
		if x == nil {
			x = zeroRat
		}
		if y == nil {
			y = zeroRat
		}
		if c := x.Cmp(y); c != 0 {
			return -c
		}
	}
	if ra != rb {
		switch {
		case ra == "":
			return -1
		case rb == "":
			return 1
		}
		return strings.Compare(ra, rb)
	}
	return strings.Compare(a.String(), b.String())
}

// factorKey orders the factors of a product: constants, then symbols and
// their powers by name, then everything else.
func factorKey(f Expr) string {
	base, _ := baseExp(f)
	switch v := base.(type) {
	case *Num:
		return "0" + v.String()
	case *Const:
		return "1" + v.name
	case *Sym:
		return "2" + v.name
	case *Add:
		return "4" + swapSigns(v.String())
	}
	return "3" + base.String()
}
