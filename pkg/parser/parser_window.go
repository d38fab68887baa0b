package parser

import (
	"github.com/avenger-vis/avenger/pkg/ast"
	"github.com/avenger-vis/avenger/pkg/token"
)

// Window specification parsing: OVER clauses, PARTITION BY, ORDER BY, frame specs.
//
// Grammar:
//
//	over_clause   → OVER (name | window_spec)
//	window_spec   → '(' [base_name] [PARTITION BY expr_list] [ORDER BY order_list] [frame_spec] ')'
//	frame_spec    → (ROWS|RANGE|GROUPS) frame_extent [frame_exclude]
//	frame_extent  → BETWEEN frame_bound AND frame_bound | frame_bound
//	frame_bound   → UNBOUNDED PRECEDING | UNBOUNDED FOLLOWING | CURRENT ROW | expr PRECEDING | expr FOLLOWING
//	frame_exclude → EXCLUDE (CURRENT ROW | GROUP | TIES | NO OTHERS)

// parseWindowFunction wraps call in a WindowFunction for its OVER clause.
func (p *Parser) parseWindowFunction(call *ast.Invocation) (ast.Expr, error) {
	p.nextToken() // consume OVER
	wf := &ast.WindowFunction{Call: call}

	if p.check(token.LPAREN) {
		spec, err := p.parseWindowSpec()
		if err != nil {
			return nil, err
		}
		wf.Spec = spec
	} else {
		name, err := p.parseName("window name")
		if err != nil {
			return nil, err
		}
		wf.WindowName = name
	}

	wf.NodeInfo = p.nodeInfo(call.Pos())
	return wf, nil
}

// parseWindowSpec parses a parenthesized window specification.
func (p *Parser) parseWindowSpec() (*ast.WindowSpec, error) {
	start := p.token().Pos
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	spec := &ast.WindowSpec{}

	// Existing window being refined: OVER (w ORDER BY x)
	if p.startsWindowBaseName() {
		spec.BaseName = p.nextToken().Literal
	}

	// PARTITION BY
	if p.match(token.PARTITION) {
		if _, err := p.expect(token.BY); err != nil {
			return nil, err
		}
		exprs, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		spec.PartitionBy = exprs
	}

	// ORDER BY
	if p.check(token.ORDER) {
		order, err := p.parseOrderByClause()
		if err != nil {
			return nil, err
		}
		spec.OrderBy = order
	}

	// Frame specification
	if p.checkAny(token.ROWS, token.RANGE, token.GROUPS) {
		frame, err := p.parseFrameSpec()
		if err != nil {
			return nil, err
		}
		spec.Frame = frame
	}

	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	spec.NodeInfo = p.nodeInfo(start)
	return spec, nil
}

// startsWindowBaseName reports whether the name at the cursor refers to an
// existing window rather than opening one of the spec's own clauses, which
// are non-reserved and would otherwise read as names.
func (p *Parser) startsWindowBaseName() bool {
	tok := p.token()
	if !isName(tok) {
		return false
	}
	switch tok.Type {
	case token.PARTITION:
		return !p.checkPeek(1, token.BY)
	case token.ROWS, token.RANGE, token.GROUPS:
		return p.checkPeek(1, token.RPAREN) || p.checkPeek(1, token.ORDER) || p.checkPeek(1, token.PARTITION)
	}
	return true
}

// parseFrameSpec parses a window frame specification.
func (p *Parser) parseFrameSpec() (*ast.Frame, error) {
	start := p.token().Pos
	frame := &ast.Frame{}

	switch p.nextToken().Type {
	case token.ROWS:
		frame.Unit = ast.FrameRows
	case token.RANGE:
		frame.Unit = ast.FrameRange
	default:
		frame.Unit = ast.FrameGroups
	}

	if p.match(token.BETWEEN) {
		lo, err := p.parseFrameBound()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.AND); err != nil {
			return nil, err
		}
		endTok := p.token()
		hi, err := p.parseFrameBound()
		if err != nil {
			return nil, err
		}
		if hi.Kind == ast.BoundUnboundedPreceding {
			return nil, p.errorAt(endTok, ErrFrameBound, "end", hi.Kind)
		}
		frame.Start, frame.Finish = lo, hi
	} else {
		lo, err := p.parseFrameBound()
		if err != nil {
			return nil, err
		}
		frame.Start = lo
	}
	if frame.Start.Kind == ast.BoundUnboundedFollowing {
		return nil, p.errorAt(p.tokens[p.pos-1], ErrFrameBound, "start", frame.Start.Kind)
	}

	if p.match(token.EXCLUDE) {
		excl, err := p.parseFrameExclusion()
		if err != nil {
			return nil, err
		}
		frame.Exclude = excl
	}

	frame.NodeInfo = p.nodeInfo(start)
	return frame, nil
}

// parseFrameBound parses a frame bound.
func (p *Parser) parseFrameBound() (*ast.FrameBound, error) {
	start := p.token().Pos
	bound := &ast.FrameBound{}

	switch {
	case p.match(token.UNBOUNDED):
		switch {
		case p.match(token.PRECEDING):
			bound.Kind = ast.BoundUnboundedPreceding
		case p.match(token.FOLLOWING):
			bound.Kind = ast.BoundUnboundedFollowing
		default:
			return nil, p.unexpected("PRECEDING", "FOLLOWING")
		}

	case p.check(token.CURRENT) && p.checkPeek(1, token.ROW):
		p.nextToken()
		p.nextToken()
		bound.Kind = ast.BoundCurrentRow

	default:
		// N PRECEDING or N FOLLOWING; the offset stops short of AND
		offset, err := p.parseExpressionWithPrecedence(precPattern)
		if err != nil {
			return nil, err
		}
		bound.Offset = offset
		switch {
		case p.match(token.PRECEDING):
			bound.Kind = ast.BoundPreceding
		case p.match(token.FOLLOWING):
			bound.Kind = ast.BoundFollowing
		default:
			return nil, p.unexpected("PRECEDING", "FOLLOWING")
		}
	}

	bound.NodeInfo = p.nodeInfo(start)
	return bound, nil
}

// parseFrameExclusion parses what follows EXCLUDE.
func (p *Parser) parseFrameExclusion() (ast.FrameExclusion, error) {
	switch {
	case p.match(token.CURRENT):
		if _, err := p.expect(token.ROW); err != nil {
			return ast.ExcludeNone, err
		}
		return ast.ExcludeCurrentRow, nil
	case p.match(token.GROUP):
		return ast.ExcludeGroup, nil
	case p.match(token.TIES):
		return ast.ExcludeTies, nil
	case p.match(token.NO):
		if _, err := p.expect(token.OTHERS); err != nil {
			return ast.ExcludeNone, err
		}
		return ast.ExcludeNoOthers, nil
	}
	return ast.ExcludeNone, p.unexpected("CURRENT ROW", "GROUP", "TIES", "NO OTHERS")
}
