// Package expr implements a shunting-yard expression evaluator over
// q16.Q: infix arithmetic, comparison and bitwise expressions, a
// built-in function library (trig, hyperbolic, exp/log/pow/sqrt,
// rounding, predicates), named variables, and a handful of operators
// that reconfigure the evaluator's own number formatting as a side
// effect ("base", "places"). It is the same expression language the
// original C core embeds via qexpr()/qop(), translated from its
// sorted-array-plus-binary-search operator table into a Go map and
// from its goto-laden shunt()/op_eval() pair into ordinary control
// flow.
package expr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gammazero/deque"
	"go.uber.org/multierr"

	"github.com/rjhq/q16"
	"github.com/rjhq/q16/qcontext"
	"github.com/rjhq/q16/qfile"
	"github.com/rjhq/q16/qlog"
	"github.com/rjhq/q16/trig"
)

// DefaultStackSize bounds the depth of both the number and operator
// stacks, mirroring the original's fixed-size stack arrays.
const DefaultStackSize = 64

type associativity int

const (
	associateNone associativity = iota
	associateLeft
	associateRight
)

type unaryFunc func(q16.Q) q16.Q
type binaryFunc func(q16.Q, q16.Q) q16.Q
type unaryEvalFunc func(e *Evaluator, a q16.Q) q16.Q
type unaryCheck func(e *Evaluator, a q16.Q) error
type binaryCheck func(e *Evaluator, left, right q16.Q) error

// operator describes one entry of the original's qoperations_t table:
// a name, precedence/arity/associativity, a visibility flag, and the
// function (and optional precondition check) it evaluates to.
type operator struct {
	name        string
	precedence  int
	arity       int
	assoc       associativity
	hidden      bool
	unary       unaryFunc
	unaryEval   unaryEvalFunc // unary operators that mutate the Evaluator itself (base, places)
	binary      binaryFunc
	checkUnary  unaryCheck
	checkBinary binaryCheck
}

func boolQ(v bool) q16.Q {
	if v {
		return q16.Info.One
	}
	return q16.Info.Zero
}

func logicalNot(a q16.Q) q16.Q { return boolQ(a == 0) }

func opBase(e *Evaluator, a q16.Q) q16.Q {
	e.ctx.SetBase(a.ToInt())
	e.log.ConfigChanged("base", a.ToInt())
	return a
}

func opPlaces(e *Evaluator, a q16.Q) q16.Q {
	e.ctx.SetPlaces(a.ToInt())
	e.log.ConfigChanged("places", a.ToInt())
	return a
}

func checkDiv0(_ *Evaluator, _, right q16.Q) error {
	if right == 0 {
		return errors.New("division by zero")
	}
	return nil
}

// checkNLZ: Not Less than Zero.
func checkNLZ(_ *Evaluator, a q16.Q) error {
	if q16.Less(a, 0) {
		return errors.New("negative argument")
	}
	return nil
}

// checkNLEZ: Not Less-or-Equal Zero.
func checkNLEZ(_ *Evaluator, a q16.Q) error {
	if q16.EqLess(a, 0) {
		return errors.New("negative or zero argument")
	}
	return nil
}

// checkNLO: Not Less than One.
func checkNLO(_ *Evaluator, a q16.Q) error {
	if q16.Less(a, q16.Info.One) {
		return errors.New("out of range [1, inf)")
	}
	return nil
}

// checkALO: Abs Less-or-equal One.
func checkALO(_ *Evaluator, a q16.Q) error {
	if q16.More(q16.Abs(a), q16.Info.One) {
		return errors.New("out of range [-1, 1]")
	}
	return nil
}

// buildOperators constructs the operator table. Grounded on q.c's
// qop(): same names, precedences, arities, associativities and hidden
// flags (including the original's own inconsistency of marking
// "arshift"/"atan2"/"copysign"/"lshift"/"max"/"min" hidden while
// leaving their near-twins "rshift"/">>"/"hypot" visible — kept
// verbatim rather than "fixed", since nothing calls that asymmetry out
// as a bug). A map replaces the sorted array and binary search: Go's
// map gives O(1) lookup directly, so there is no reason to hand-roll
// the C original's search routine.
func buildOperators() map[string]*operator {
	ops := map[string]*operator{
		"(": {name: "(", precedence: 0, arity: 0, assoc: associateNone},
		")": {name: ")", precedence: 0, arity: 0, assoc: associateNone},

		"!":  {name: "!", precedence: 5, arity: 1, assoc: associateRight, unary: logicalNot},
		"!=": {name: "!=", precedence: 2, arity: 2, assoc: associateLeft, binary: func(a, b q16.Q) q16.Q { return boolQ(q16.Unequal(a, b)) }},
		"%":  {name: "%", precedence: 3, arity: 2, assoc: associateLeft, binary: q16.Rem, checkBinary: checkDiv0},
		"&":  {name: "&", precedence: 2, arity: 2, assoc: associateLeft, binary: q16.And},
		"*":  {name: "*", precedence: 3, arity: 2, assoc: associateLeft, binary: q16.Mul},
		"+":  {name: "+", precedence: 2, arity: 2, assoc: associateLeft, binary: q16.Add},
		"-":  {name: "-", precedence: 2, arity: 2, assoc: associateLeft, binary: q16.Sub},
		"/":  {name: "/", precedence: 3, arity: 2, assoc: associateLeft, binary: q16.Div, checkBinary: checkDiv0},
		"<":  {name: "<", precedence: 2, arity: 2, assoc: associateLeft, binary: func(a, b q16.Q) q16.Q { return boolQ(q16.Less(a, b)) }},
		"<<": {name: "<<", precedence: 4, arity: 2, assoc: associateRight, binary: q16.LogicalLeftShift},
		"<=": {name: "<=", precedence: 2, arity: 2, assoc: associateLeft, binary: func(a, b q16.Q) q16.Q { return boolQ(q16.EqLess(a, b)) }},
		"==": {name: "==", precedence: 2, arity: 2, assoc: associateLeft, binary: func(a, b q16.Q) q16.Q { return boolQ(q16.Equal(a, b)) }},
		">":  {name: ">", precedence: 2, arity: 2, assoc: associateLeft, binary: func(a, b q16.Q) q16.Q { return boolQ(q16.More(a, b)) }},
		">=": {name: ">=", precedence: 2, arity: 2, assoc: associateLeft, binary: func(a, b q16.Q) q16.Q { return boolQ(q16.EqMore(a, b)) }},
		">>": {name: ">>", precedence: 4, arity: 2, assoc: associateRight, binary: q16.LogicalRightShift},
		"^":  {name: "^", precedence: 2, arity: 2, assoc: associateLeft, binary: q16.Xor},
		"|":  {name: "|", precedence: 2, arity: 2, assoc: associateLeft, binary: q16.Or},
		"~":  {name: "~", precedence: 5, arity: 1, assoc: associateRight, unary: q16.Not},

		"_div":  {name: "_div", precedence: 5, arity: 2, assoc: associateRight, hidden: true, binary: trig.CordicDiv},
		"_exp":  {name: "_exp", precedence: 5, arity: 1, assoc: associateRight, hidden: true, unary: trig.CordicExp},
		"_ln":   {name: "_ln", precedence: 5, arity: 1, assoc: associateRight, hidden: true, unary: trig.CordicLn, checkUnary: checkNLEZ},
		"_mul":  {name: "_mul", precedence: 5, arity: 2, assoc: associateRight, hidden: true, binary: trig.CordicMul},
		"_sqrt": {name: "_sqrt", precedence: 5, arity: 1, assoc: associateRight, hidden: true, unary: trig.CordicSqrt, checkUnary: checkNLZ},

		"abs":     {name: "abs", precedence: 5, arity: 1, assoc: associateRight, unary: q16.Abs},
		"acos":    {name: "acos", precedence: 5, arity: 1, assoc: associateRight, unary: trig.Acos, checkUnary: checkALO},
		"acosh":   {name: "acosh", precedence: 5, arity: 1, assoc: associateRight, unary: trig.Acosh, checkUnary: checkNLO},
		"arshift": {name: "arshift", precedence: 4, arity: 2, assoc: associateRight, hidden: true, binary: q16.ArithmeticRightShift},
		"asin":    {name: "asin", precedence: 5, arity: 1, assoc: associateRight, unary: trig.Asin, checkUnary: checkALO},
		"asinh":   {name: "asinh", precedence: 5, arity: 1, assoc: associateRight, unary: trig.Asinh},
		"atan":    {name: "atan", precedence: 5, arity: 1, assoc: associateRight, unary: trig.Atan},
		"atan2":   {name: "atan2", precedence: 5, arity: 2, assoc: associateRight, hidden: true, binary: trig.Atan2},
		"atanh":   {name: "atanh", precedence: 5, arity: 1, assoc: associateRight, unary: trig.Atanh, checkUnary: checkALO},
		"base":    {name: "base", precedence: 2, arity: 1, assoc: associateRight, unaryEval: opBase},
		"ceil":    {name: "ceil", precedence: 5, arity: 1, assoc: associateRight, unary: q16.Ceil},
		"copysign": {name: "copysign", precedence: 4, arity: 2, assoc: associateRight, hidden: true, binary: q16.Copysign},
		"cos":     {name: "cos", precedence: 5, arity: 1, assoc: associateRight, unary: trig.Cos},
		"cosh":    {name: "cosh", precedence: 5, arity: 1, assoc: associateRight, unary: trig.Cosh},
		"cot":     {name: "cot", precedence: 5, arity: 1, assoc: associateRight, unary: trig.Cot},
		"deg2rad": {name: "deg2rad", precedence: 5, arity: 1, assoc: associateRight, unary: trig.Deg2Rad},
		"even?":   {name: "even?", precedence: 5, arity: 1, assoc: associateRight, unary: func(a q16.Q) q16.Q { return boolQ(a.IsEven()) }},
		"exp":     {name: "exp", precedence: 5, arity: 1, assoc: associateRight, unary: trig.Exp},
		"floor":   {name: "floor", precedence: 5, arity: 1, assoc: associateRight, unary: q16.Floor},
		"hypot":   {name: "hypot", precedence: 5, arity: 2, assoc: associateRight, binary: trig.Hypot},
		"int?":    {name: "int?", precedence: 5, arity: 1, assoc: associateRight, unary: func(a q16.Q) q16.Q { return boolQ(a.IsInteger()) }},
		"log":     {name: "log", precedence: 5, arity: 1, assoc: associateRight, unary: trig.Log, checkUnary: checkNLEZ},
		"lshift":  {name: "lshift", precedence: 4, arity: 2, assoc: associateRight, hidden: true, binary: q16.LogicalLeftShift},
		"max":     {name: "max", precedence: 5, arity: 2, assoc: associateRight, hidden: true, binary: q16.Max},
		"min":     {name: "min", precedence: 5, arity: 2, assoc: associateRight, hidden: true, binary: q16.Min},
		"mod":     {name: "mod", precedence: 3, arity: 2, assoc: associateLeft, binary: q16.Mod, checkBinary: checkDiv0},
		"neg?":    {name: "neg?", precedence: 5, arity: 1, assoc: associateRight, unary: func(a q16.Q) q16.Q { return boolQ(a.IsNegative()) }},
		"negate":  {name: "negate", precedence: 5, arity: 1, assoc: associateRight, unary: q16.Neg},
		"odd?":    {name: "odd?", precedence: 5, arity: 1, assoc: associateRight, unary: func(a q16.Q) q16.Q { return boolQ(a.IsOdd()) }},
		"places":  {name: "places", precedence: 2, arity: 1, assoc: associateRight, unaryEval: opPlaces},
		"pos?":    {name: "pos?", precedence: 5, arity: 1, assoc: associateRight, unary: func(a q16.Q) q16.Q { return boolQ(a.IsPositive()) }},
		"pow":     {name: "pow", precedence: 5, arity: 2, assoc: associateRight, binary: trig.Pow},
		"rad2deg": {name: "rad2deg", precedence: 5, arity: 1, assoc: associateRight, unary: trig.Rad2Deg},
		"rem":     {name: "rem", precedence: 3, arity: 2, assoc: associateLeft, binary: q16.Rem, checkBinary: checkDiv0},
		"round":   {name: "round", precedence: 5, arity: 1, assoc: associateRight, unary: q16.Round},
		"rshift":  {name: "rshift", precedence: 4, arity: 2, assoc: associateRight, binary: q16.LogicalRightShift},
		"sign":    {name: "sign", precedence: 5, arity: 1, assoc: associateRight, unary: q16.Sign},
		"signum":  {name: "signum", precedence: 5, arity: 1, assoc: associateRight, unary: q16.Signum},
		"sin":     {name: "sin", precedence: 5, arity: 1, assoc: associateRight, unary: trig.Sin},
		"sinh":    {name: "sinh", precedence: 5, arity: 1, assoc: associateRight, unary: trig.Sinh},
		"sqrt":    {name: "sqrt", precedence: 5, arity: 1, assoc: associateRight, unary: trig.Sqrt, checkUnary: checkNLZ},
		"tan":     {name: "tan", precedence: 5, arity: 1, assoc: associateRight, unary: trig.Tan},
		"tanh":    {name: "tanh", precedence: 5, arity: 1, assoc: associateRight, unary: trig.Tanh},
		"trunc":   {name: "trunc", precedence: 5, arity: 1, assoc: associateRight, unary: q16.Trunc},
	}
	return ops
}

var operators = buildOperators()

// lparen, rparen, minusOp and negateOp are identity-compared during
// shunting (parenthesis handling) and unary-minus reinterpretation, so
// they are pulled out of the table once rather than looked up by name
// on every use.
var (
	lparen   = operators["("]
	rparen   = operators[")"]
	minusOp  = operators["-"]
	negateOp = operators["negate"]
)

const punctChars = "!%&()*+-/<=>^|~"

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlnum(c byte) bool { return isAlpha(c) || isDigit(c) }
func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
func isPunct(c byte) bool { return strings.IndexByte(punctChars, c) >= 0 }

func variableNameValid(n string) bool {
	if n == "" {
		return false
	}
	if !isAlpha(n[0]) && n[0] != '_' {
		return false
	}
	for i := 1; i < len(n); i++ {
		if !isAlnum(n[i]) && n[i] != '_' {
			return false
		}
	}
	return true
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokOperator
	tokEnd
)

type token struct {
	kind tokenKind
	num  q16.Q
	op   *operator
}

// Evaluator holds the mutable state one call to Eval operates on: the
// named-variable table, the number/operator stacks, the context used
// to parse/format numeric literals (and mutated in place by the
// "base"/"places" operators), and the sticky error the original's
// qexpr_t.error field plays the same role for.
type Evaluator struct {
	ctx        *qcontext.Context
	vars       map[string]q16.Q
	maxDepth   int
	hideHidden bool
	log        *qlog.Logger

	numbers deque.Deque[q16.Q]
	ops     deque.Deque[*operator]
	err     error
}

// Option configures an Evaluator at construction time.
type Option func(*Evaluator)

// WithContext replaces the default qcontext.Context (Saturate
// overflow, base 10, unlimited places) with ctx.
func WithContext(ctx *qcontext.Context) Option {
	return func(e *Evaluator) { e.ctx = ctx }
}

// WithMaxDepth overrides DefaultStackSize for both stacks.
func WithMaxDepth(n int) Option {
	return func(e *Evaluator) { e.maxDepth = n }
}

// HideInternals makes hidden operators (the "_mul"/"_div"/"_exp"/
// "_ln"/"_sqrt" raw CORDIC diagnostics, plus the table's other
// hidden-flagged entries) fail to resolve, mirroring the original's
// CONFIG_Q_HIDE_FUNCS build-time switch.
func HideInternals() Option {
	return func(e *Evaluator) { e.hideHidden = true }
}

// WithLogger attaches a Logger that records evaluation starts,
// results, failures, operator-check rejections, and "base"/"places"
// config changes. The default is qlog.Nop.
func WithLogger(l *qlog.Logger) Option {
	return func(e *Evaluator) { e.log = l }
}

// WithConstants binds the default variable set an expr.c-style CLI
// exposes: whole, fractional, bit, smallest, biggest, pi, e, sqrt2,
// sqrt3, ln2, ln10.
func WithConstants() Option {
	return func(e *Evaluator) {
		e.vars["whole"] = q16.Int(q16.Info.Whole)
		e.vars["fractional"] = q16.Int(q16.Info.Fractional)
		e.vars["bit"] = q16.Info.Bit
		e.vars["smallest"] = q16.Info.Min
		e.vars["biggest"] = q16.Info.Max
		e.vars["pi"] = q16.Info.Pi
		e.vars["e"] = q16.Info.E
		e.vars["sqrt2"] = q16.Info.Sqrt2
		e.vars["sqrt3"] = q16.Info.Sqrt3
		e.vars["ln2"] = q16.Info.Ln2
		e.vars["ln10"] = q16.Info.Ln10
	}
}

// New creates an Evaluator with a default qcontext.Context and an
// empty variable table, then applies opts.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		ctx:      qcontext.Default(),
		vars:     make(map[string]q16.Q),
		maxDepth: DefaultStackSize,
		log:      qlog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Context returns the Evaluator's qcontext.Context, which the "base"
// and "places" operators mutate as a side effect of evaluation.
func (e *Evaluator) Context() *qcontext.Context { return e.ctx }

// Vars returns a copy of the Evaluator's named-variable table.
func (e *Evaluator) Vars() map[string]q16.Q {
	out := make(map[string]q16.Q, len(e.vars))
	for k, v := range e.vars {
		out[k] = v
	}
	return out
}

// SaveSession writes the Evaluator's current overflow policy, base,
// places and variable table to path as TOML.
func (e *Evaluator) SaveSession(path string) error {
	return qfile.Save(path, qfile.FromContext(e.ctx, e.vars))
}

// LoadSession reads a session previously written by SaveSession,
// applying its overflow policy, base and places to the Evaluator's
// Context and merging its variables into the Evaluator's table.
func (e *Evaluator) LoadSession(path string) error {
	cfg, err := qfile.Load(path)
	if err != nil {
		return err
	}
	loaded, vars, err := cfg.Apply()
	if err != nil {
		return err
	}
	e.ctx.SetOverflow(loaded.Overflow).SetBase(loaded.Base).SetPlaces(loaded.Places)
	for name, v := range vars {
		e.vars[name] = v
	}
	return nil
}

// SetVar binds name to v. name must start with a letter or underscore
// and continue with letters, digits or underscores.
func (e *Evaluator) SetVar(name string, v q16.Q) error {
	if !variableNameValid(name) {
		return fmt.Errorf("expr: invalid variable name %q", name)
	}
	e.vars[name] = v
	return nil
}

func (e *Evaluator) fail(msg string) error {
	if e.err == nil {
		e.err = errors.New("expr: " + msg)
	}
	return e.err
}

func (e *Evaluator) pushNumber(n q16.Q) error {
	if e.err != nil {
		return e.err
	}
	if e.numbers.Len() >= e.maxDepth {
		return e.fail("number stack overflow")
	}
	e.numbers.PushBack(n)
	return nil
}

func (e *Evaluator) popNumber() (q16.Q, error) {
	if e.err != nil {
		return 0, e.err
	}
	if e.numbers.Len() == 0 {
		return 0, e.fail("number stack empty")
	}
	return e.numbers.PopBack(), nil
}

func (e *Evaluator) pushOp(op *operator) error {
	if e.err != nil {
		return e.err
	}
	if e.ops.Len() >= e.maxDepth {
		return e.fail("operator stack overflow")
	}
	e.ops.PushBack(op)
	return nil
}

func (e *Evaluator) popOp() (*operator, error) {
	if e.err != nil {
		return nil, e.err
	}
	if e.ops.Len() == 0 {
		return nil, e.fail("operator stack empty")
	}
	return e.ops.PopBack(), nil
}

// opEval pops one operator and its operand(s), runs its precondition
// check if any, applies it, and pushes the result. Grounded directly
// on q.c's op_eval(): the first number popped is the rightmost operand
// (pushed last), the second (for binary operators) is the left one,
// and a binary check function sees them in (left, right) order.
func (e *Evaluator) opEval() error {
	op, err := e.popOp()
	if err != nil {
		return err
	}
	right, err := e.popNumber()
	if err != nil {
		return err
	}
	if op.arity == 1 {
		switch {
		case op.unaryEval != nil:
			return e.pushNumber(op.unaryEval(e, right))
		case op.unary != nil:
			if op.checkUnary != nil {
				if cerr := op.checkUnary(e, right); cerr != nil {
					e.log.OperatorCheckFailed(op.name, cerr.Error())
					return e.fail(cerr.Error())
				}
			}
			return e.pushNumber(op.unary(right))
		default:
			return e.fail(fmt.Sprintf("syntax error at %q", op.name))
		}
	}
	if op.binary == nil {
		return e.fail(fmt.Sprintf("syntax error at %q", op.name))
	}
	left, err := e.popNumber()
	if err != nil {
		return err
	}
	if op.checkBinary != nil {
		if cerr := op.checkBinary(e, left, right); cerr != nil {
			e.log.OperatorCheckFailed(op.name, cerr.Error())
			return e.fail(cerr.Error())
		}
	}
	return e.pushNumber(op.binary(left, right))
}

// shunt implements one step of the shunting-yard algorithm: "("
// pushes, ")" unwinds to the matching "(", and any other operator
// first evaluates everything on the operator stack that binds at
// least as tightly (strictly, for right-associative operators) as op,
// then pushes op. Grounded directly on q.c's shunt().
func (e *Evaluator) shunt(op *operator) error {
	switch {
	case op == lparen:
		return e.pushOp(op)
	case op == rparen:
		for e.ops.Len() > 0 && e.ops.Back() != lparen {
			if err := e.opEval(); err != nil {
				return err
			}
		}
		top, err := e.popOp()
		if err != nil {
			return err
		}
		if top != lparen {
			return e.fail(`expected "("`)
		}
		return nil
	case op.assoc == associateRight:
		for e.ops.Len() > 0 && op.precedence < e.ops.Back().precedence {
			if err := e.opEval(); err != nil {
				return err
			}
		}
	default:
		for e.ops.Len() > 0 && op.precedence <= e.ops.Back().precedence {
			if err := e.opEval(); err != nil {
				return err
			}
		}
	}
	return e.pushOp(op)
}

func (e *Evaluator) lexIdent(s string, pos int) (token, int, error) {
	start := pos
	for pos < len(s) && (isAlnum(s[pos]) || s[pos] == '_') {
		pos++
	}
	// a trailing '?' belongs to the predicate operators (even?, int?, ...)
	if pos < len(s) && s[pos] == '?' {
		pos++
	}
	name := s[start:pos]
	if v, ok := e.vars[name]; ok {
		return token{kind: tokNumber, num: v}, pos, nil
	}
	if op, ok := operators[name]; ok {
		return token{kind: tokOperator, op: op}, pos, nil
	}
	return token{}, pos, fmt.Errorf("unknown identifier %q", name)
}

func (e *Evaluator) lexNumber(s string, pos int) (token, int, error) {
	start := pos
	dot := false
	for pos < len(s) {
		c := s[pos]
		if isDigit(c) {
			pos++
			continue
		}
		if c == '.' && !dot {
			dot = true
			pos++
			continue
		}
		break
	}
	text := s[start:pos]
	v, err := e.ctx.Parse(text)
	if err != nil {
		return token{}, pos, fmt.Errorf("bad number %q: %w", text, err)
	}
	return token{kind: tokNumber, num: v}, pos, nil
}

// lexPunct greedily tries a two-character operator before falling
// back to one, the same preference order the original's lex() applies
// via its lookahead-then-backtrack logic.
func (e *Evaluator) lexPunct(s string, pos int) (token, int, error) {
	one := s[pos : pos+1]
	next := pos + 1
	if next < len(s) && isPunct(s[next]) {
		if op, ok := operators[s[pos:next+1]]; ok {
			return token{kind: tokOperator, op: op}, next + 1, nil
		}
	}
	if op, ok := operators[one]; ok {
		return token{kind: tokOperator, op: op}, next, nil
	}
	return token{}, next, fmt.Errorf("unknown operator %q", one)
}

func (e *Evaluator) lex(s string, pos int) (token, int, error) {
	for pos < len(s) && isSpace(s[pos]) {
		pos++
	}
	if pos >= len(s) {
		return token{kind: tokEnd}, pos, nil
	}
	c := s[pos]
	switch {
	case isAlpha(c) || c == '_':
		return e.lexIdent(s, pos)
	case isDigit(c):
		return e.lexNumber(s, pos)
	case isPunct(c):
		return e.lexPunct(s, pos)
	default:
		return token{}, pos, fmt.Errorf("unexpected character %q", c)
	}
}

func (e *Evaluator) reset() {
	e.err = nil
	e.numbers = deque.Deque[q16.Q]{}
	e.ops = deque.Deque[*operator]{}
}

// Eval parses and evaluates src, a single infix expression, returning
// its value. Grounded on q.c's qexpr(): a leading/operand-expecting
// position turns a bare "-" into unary negation via minusOp/negateOp
// substitution (the same firstop/previous tracking the original
// performs), hidden operators are rejected when HideInternals is set,
// and the expression must reduce to exactly one value.
func (e *Evaluator) Eval(src string) (q16.Q, error) {
	e.reset()
	e.log.EvalStart(src)
	firstOp := true
	var previous *operator
	pos := 0

scan:
	for {
		tok, next, lerr := e.lex(src, pos)
		pos = next
		if lerr != nil {
			e.fail(lerr.Error())
			break scan
		}
		switch tok.kind {
		case tokEnd:
			break scan
		case tokNumber:
			if err := e.pushNumber(tok.num); err != nil {
				break scan
			}
			previous = nil
			firstOp = false
		case tokOperator:
			op := tok.op
			if e.hideHidden && op.hidden {
				e.fail(fmt.Sprintf("unknown operator %q", op.name))
				break scan
			}
			if firstOp || (previous != nil && previous != rparen) {
				switch {
				case op == minusOp:
					op = negateOp
				case op.arity == 1:
					// a unary operator in prefix position is fine as-is
				case op != lparen:
					e.fail(fmt.Sprintf("invalid use of %q", op.name))
					break scan
				}
			}
			if err := e.shunt(op); err != nil {
				break scan
			}
			previous = op
			firstOp = false
		}
	}

	for e.ops.Len() > 0 {
		if err := e.opEval(); err != nil {
			break
		}
	}
	if e.err == nil && e.numbers.Len() != 1 {
		e.fail(fmt.Sprintf("invalid expression: %d values remain", e.numbers.Len()))
	}
	if e.err != nil {
		e.log.EvalError(src, e.err)
		return 0, e.err
	}
	result := e.numbers.Back()
	e.log.EvalResult(src, e.ctx.Format(result))
	return result, nil
}

// EvalAll evaluates every expression in exprs against the same
// Evaluator (so variables set by one expression, or a "base"/"places"
// side effect, carry into the next) and returns the values that
// succeeded alongside a combined error naming every expression that
// failed. There is no equivalent in the original, which evaluates one
// command-line argument at a time; this is the natural Go idiom for
// expr.c's built-in-self-test table, which runs many expressions in a
// batch and reports all failures rather than stopping at the first.
func (e *Evaluator) EvalAll(exprs []string) ([]q16.Q, error) {
	results := make([]q16.Q, 0, len(exprs))
	var errs error
	for _, s := range exprs {
		v, err := e.Eval(s)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%q: %w", s, err))
			continue
		}
		results = append(results, v)
	}
	return results, errs
}
