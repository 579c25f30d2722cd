package cas

// ============================================================
// Laplace transforms (table-based)
// ============================================================

// LaplaceTransform returns F(s) = integral of f(t)*exp(-s*t) over t > 0,
// together with the abscissa of convergence. Terms must be products of a
// constant, t**n, exp(a*t) and at most one of sin, cos, sinh or cosh of b*t.
func LaplaceTransform(f Expr, t, s string) (Expr, Expr, error) {
	var out, abscissas []Expr
	for _, term := range sumTerms(Expand(f)) {
		F, a, err := laplaceTerm(term, t, s)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, F)
		abscissas = append(abscissas, a)
	}
	return AddOf(out...), maxAbscissa(abscissas), nil
}

func maxAbscissa(as []Expr) Expr {
	best := Expr(zero)
	for _, a := range as {
		av, aok := evalFloat(a)
		bv, bok := evalFloat(best)
		switch {
		case aok && bok && av > bv:
			best = a
		case !aok && bok && bv == 0:
			best = a
		}
	}
	return best
}

func laplaceTerm(term Expr, t, s string) (Expr, Expr, error) {
	c, r := splitCoeff(term)
	factors := []Expr{r}
	if m, ok := r.(*Mul); ok {
		factors = m.factors
	}
	coeff := []Expr{c}
	n := int64(0)
	shift := Expr(zero)
	var kernel *Func
	b := Expr(zero)
	unsupported := func() (Expr, Expr, error) {
		return nil, nil, noClosedForm("no Laplace transform rule for %s", term)
	}
	for _, f := range factors {
		if isOneNumber(f) {
			continue
		}
		if !Has(f, t) {
			coeff = append(coeff, f)
			continue
		}
		switch v := f.(type) {
		case *Sym:
			n++
			continue
		case *Pow:
			k, ok := v.exp.(*Num)
			if sym, isSym := v.base.(*Sym); isSym && sym.name == t && ok && k.IsInteger() && k.IsPositive() {
				kk, _ := k.Int64()
				n += kk
				continue
			}
		case *Func:
			slope, icpt, ok := linear(v.arg, t)
			if !ok {
				return unsupported()
			}
			switch v.name {
			case "exp":
				shift = AddOf(shift, slope)
				coeff = append(coeff, Exp(icpt))
				continue
			case "sin", "cos", "sinh", "cosh":
				if kernel != nil || !isZeroNumber(icpt) {
					return unsupported()
				}
				kernel, b = v, slope
				continue
			}
		}
		return unsupported()
	}
	ss := S(s)
	var F Expr
	abscissa := shift
	switch {
	case kernel == nil:
		F = PowOf(ss, minusOne)
	case kernel.name == "sin":
		F = Div(b, AddOf(PowOf(ss, N(2)), PowOf(b, N(2))))
	case kernel.name == "cos":
		F = Div(ss, AddOf(PowOf(ss, N(2)), PowOf(b, N(2))))
	case kernel.name == "sinh":
		F = Div(b, Sub(PowOf(ss, N(2)), PowOf(b, N(2))))
		abscissa = AddOf(shift, Abs(b))
	default:
		F = Div(ss, Sub(PowOf(ss, N(2)), PowOf(b, N(2))))
		abscissa = AddOf(shift, Abs(b))
	}
	if n > 0 {
		if kernel == nil {
			fact := one
			for i := int64(2); i <= n; i++ {
				fact = numMul(fact, N(i))
			}
			F = MulOf(fact, PowOf(ss, N(-(n + 1))))
		} else {
			for i := int64(0); i < n; i++ {
				F = Neg(F.Diff(s))
			}
			F = Factor(F)
		}
	}
	if !isZeroNumber(shift) {
		F = F.Subs(s, Sub(ss, shift))
	}
	return MulOf(append(coeff, F)...), abscissa, nil
}

// InverseLaplaceTransform recovers f(t) for t > 0 from a proper rational F(s).
// No Heaviside factor is attached.
func InverseLaplaceTransform(F Expr, s, t string) (Expr, error) {
	n, d := numerDenom(Together(F))
	pn, ok1 := polyIn(n, s)
	pd, ok2 := polyIn(d, s)
	if ok1 && ok2 && pd.deg() >= 1 {
		return inverseRational(pn, pd, t)
	}
	var out []Expr
	for _, term := range sumTerms(Expand(F)) {
		r, err := inverseTerm(term, s, t)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return AddOf(out...), nil
}

func inverseRational(n, d poly, t string) (Expr, error) {
	q, terms := partialFractions(n, d)
	if !q.isZero() {
		return nil, noClosedForm("inverse Laplace transform of an improper rational function needs DiracDelta")
	}
	st := S(t)
	var out []Expr
	for _, pt := range terms {
		switch pt.base.deg() {
		case 1:
			// c/(q*s - p)**k = (c/q**k)/(s - r)**k
			qc, pc := pt.base[1], numNeg(pt.base[0])
			r := numDiv(pc, qc)
			qk, _ := numPowInt(qc, int64(pt.k))
			c := numDiv(pt.num.coeff(0), qk)
			out = append(out, powerExp(c, pt.k, r, st))
		case 2:
			if pt.k != 1 {
				return nil, noClosedForm("inverse Laplace transform of repeated quadratic factors is not supported")
			}
			A := pt.base[2]
			b, c := numDiv(pt.base[1], A), numDiv(pt.base[0], A)
			alpha, beta := numDiv(pt.num.coeff(1), A), numDiv(pt.num.coeff(0), A)
			out = append(out, dampedOscillation(alpha, beta, b, c, st))
		default:
			return nil, noClosedForm("inverse Laplace transform needs factors of degree at most two")
		}
	}
	return AddOf(out...), nil
}

// powerExp is the inverse of c/(s - r)**k: c*t**(k-1)*exp(r*t)/(k-1)!.
func powerExp(c Expr, k int, r Expr, t Expr) Expr {
	fact := one
	for i := int64(2); i < int64(k); i++ {
		fact = numMul(fact, N(i))
	}
	return MulOf(c, numRecip(fact), PowOf(t, N(int64(k-1))), Exp(MulOf(r, t)))
}

// dampedOscillation inverts (alpha*s + beta)/(s**2 + b*s + c) by completing
// the square.
func dampedOscillation(alpha, beta, b, c *Num, t Expr) Expr {
	half := numDiv(b, N(2))
	w2 := numSub(c, numMul(half, half))
	shifted := numSub(beta, numMul(alpha, half))
	decay := Exp(MulOf(numNeg(half), t))
	var even, odd Expr
	if w2.IsPositive() {
		w := Sqrt(w2)
		even = MulOf(alpha, Cos(MulOf(w, t)))
		odd = MulOf(shifted, PowOf(w, minusOne), Sin(MulOf(w, t)))
	} else {
		w := Sqrt(numNeg(w2))
		even = MulOf(alpha, FuncOf("cosh", MulOf(w, t)))
		odd = MulOf(shifted, PowOf(w, minusOne), FuncOf("sinh", MulOf(w, t)))
	}
	return Expand(MulOf(decay, AddOf(even, odd)))
}

// inverseTerm handles single terms with symbolic parameters: c/(s - a)**k
// and (alpha*s + beta)/(s**2 + w**2).
func inverseTerm(term Expr, s, t string) (Expr, error) {
	st := S(t)
	if !Has(term, s) {
		return nil, noClosedForm("inverse Laplace transform of %s needs DiracDelta", term)
	}
	n, d := numerDenom(term)
	if Has(n, s) {
		cs, ok := coeffsIn(n, s)
		if !ok || len(cs) > 2 {
			return nil, noClosedForm("no inverse Laplace transform rule for %s", term)
		}
	}
	base, k := d, 1
	if p, ok := d.(*Pow); ok {
		if e, ok := p.exp.(*Num); ok && e.IsInteger() && e.IsPositive() {
			kk, _ := e.Int64()
			base, k = p.base, int(kk)
		}
	}
	if m, ok := d.(*Mul); ok {
		indep, dep := splitDependent(m, s)
		n = Div(n, indep)
		base, k = dep, 1
		if p, ok := dep.(*Pow); ok {
			if e, ok := p.exp.(*Num); ok && e.IsInteger() && e.IsPositive() {
				kk, _ := e.Int64()
				base, k = p.base, int(kk)
			}
		}
	}
	bc, ok := coeffsIn(base, s)
	if !ok {
		return nil, noClosedForm("no inverse Laplace transform rule for %s", term)
	}
	nc, _ := coeffsIn(n, s)
	switch len(bc) {
	case 2:
		if len(nc) > 1 && !isZeroNumber(nc[1]) {
			return nil, noClosedForm("no inverse Laplace transform rule for %s", term)
		}
		lead := bc[1]
		r := Cancel(Neg(Div(bc[0], lead)))
		c := Div(n, PowOf(lead, N(int64(k))))
		return powerExp(c, k, r, st), nil
	case 3:
		if k != 1 || !isZeroNumber(bc[1]) {
			break
		}
		A := bc[2]
		w := Sqrt(Cancel(Div(bc[0], A)))
		var alpha, beta Expr = zero, nc[0]
		if len(nc) > 1 {
			alpha = nc[1]
		}
		return AddOf(
			MulOf(Div(alpha, A), Cos(MulOf(w, st))),
			MulOf(Div(beta, MulOf(A, w)), Sin(MulOf(w, st))),
		), nil
	}
	return nil, noClosedForm("no inverse Laplace transform rule for %s", term)
}
