package lang

// Option configures a parse.
type Option func(*parseConfig)

// parseConfig holds the effective parse configuration.
type parseConfig struct {
	trace TraceWriter
	reg   *Registry
	cache bool
}

// WithTrace sets the trace sink used while lexing and parsing. The sink
// is not retained by the returned tree; evaluation tracing comes from the
// evaluation Context instead.
func WithTrace(t TraceWriter) Option {
	return func(cfg *parseConfig) {
		cfg.trace = t
	}
}

// WithExtensions sets the extension registry whose names the lexer
// recognizes and whose arities the parser enforces.
func WithExtensions(reg *Registry) Option {
	return func(cfg *parseConfig) {
		cfg.reg = reg
	}
}

// WithCache controls reuse of previously parsed roots for identical
// expression text and registry. Enabled by default.
func WithCache(enable bool) Option {
	return func(cfg *parseConfig) {
		cfg.cache = enable
	}
}

// Parse converts a raw condition expression into an evaluable [Root].
// The empty expression is legal and evaluates to Null. Grammar and
// lexical failures return a *ParseError.
func Parse(raw string, opts ...Option) (*Root, error) {
	cfg := parseConfig{cache: true}

	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.cache {
		if root, ok := cacheLookup(raw, cfg.reg); ok {
			return root, nil
		}
	}

	root, err := parse(raw, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.cache {
		cacheStore(raw, cfg.reg, root)
	}

	return root, nil
}

// frame is one open container on the parse stack: an unclosed function
// call or bracket indexer, plus its opening token for diagnostics.
type frame struct {
	node node // *funcNode or *indexerNode
	tok  Token
}

// parser consumes the token stream and builds the tree. It tracks the
// open-container stack, the current root, and the previously consumed
// token for position-sensitive rules.
type parser struct {
	raw     string
	lex     *lexer
	cfg     parseConfig
	stack   []frame
	root    node
	last    Token
	hasLast bool
}

func parse(raw string, cfg parseConfig) (*Root, error) {
	p := &parser{
		raw: raw,
		lex: newLexer(raw, cfg.reg),
		cfg: cfg,
	}

	p.trace("Parsing expression: <" + raw + ">")

	for {
		tok, ok := p.lex.tryNext()
		if !ok {
			break
		}

		last, err := p.process(tok)
		if err != nil {
			return nil, err
		}

		p.last = last
		p.hasLast = true
	}

	if len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]

		kind := UnclosedFunction
		if _, ok := top.node.(*indexerNode); ok {
			kind = UnclosedIndexer
		}

		return nil, newParseError(kind, top.tok, raw)
	}

	return &Root{raw: raw, node: p.root}, nil
}

// process applies the per-kind grammar action for one token and returns
// the token that position-sensitive rules should treat as previous
// (the token itself, or the final token of a mandatory lookahead).
func (p *parser) process(tok Token) (Token, error) {
	switch {
	case tok.isLiteral():
		return tok, p.handleLiteral(tok)

	case tok.isFunction():
		return p.handleFunction(tok)

	case tok.Kind == TokenStartIndex:
		return tok, p.handleStartIndex(tok)

	case tok.Kind == TokenDereference:
		return p.handleDereference(tok)

	case tok.Kind == TokenEndParameter:
		return tok, p.handleEndParameter(tok)

	case tok.Kind == TokenEndIndex:
		return tok, p.handleEndIndex(tok)

	case tok.Kind == TokenSeparator:
		return tok, p.handleSeparator(tok)

	case tok.Kind == TokenUnrecognized:
		return tok, newParseError(UnrecognizedValue, tok, p.raw)

	default:
		// StartParameter and PropertyName are consumed only by the
		// lookahead after a function or dereference token.
		return tok, newParseError(UnexpectedSymbol, tok, p.raw)
	}
}

// mayBeginValue reports whether a literal or function may appear here:
// only as the first token, or directly after '[', '(', or ','.
func (p *parser) mayBeginValue() bool {
	if !p.hasLast {
		return true
	}

	switch p.last.Kind {
	case TokenStartIndex, TokenStartParameter, TokenSeparator:
		return true
	default:
		return false
	}
}

// mayIndex reports whether '[' or '.' may apply here: only after a
// completed expression, i.e. ')' , ']' or a property name.
func (p *parser) mayIndex() bool {
	if !p.hasLast {
		return false
	}

	switch p.last.Kind {
	case TokenEndParameter, TokenEndIndex, TokenPropertyName:
		return true
	default:
		return false
	}
}

// hasCapacity reports whether the innermost open container can accept
// another child. Functions are bounded by their maximum arity; the
// separator rule guards every argument after the first, and this guards
// the first for zero-parameter functions.
func (p *parser) hasCapacity() bool {
	if len(p.stack) == 0 {
		return true
	}

	if fn, ok := p.stack[len(p.stack)-1].node.(*funcNode); ok {
		return len(fn.args) < fn.maxParams()
	}

	return true
}

// attach adds a completed expression node as a child of the innermost
// open container, or makes it the root when the stack is empty.
func (p *parser) attach(n node) {
	if len(p.stack) == 0 {
		p.root = n

		return
	}

	switch c := p.stack[len(p.stack)-1].node.(type) {
	case *funcNode:
		c.args = append(c.args, n)

	case *indexerNode:
		c.index = n
	}
}

func (p *parser) handleLiteral(tok Token) error {
	if !p.mayBeginValue() || !p.hasCapacity() {
		return newParseError(UnexpectedSymbol, tok, p.raw)
	}

	p.attach(&leafNode{value: tok.Value})

	return nil
}

func (p *parser) handleFunction(tok Token) (Token, error) {
	if !p.mayBeginValue() || !p.hasCapacity() {
		return tok, newParseError(UnexpectedSymbol, tok, p.raw)
	}

	fn := &funcNode{name: tok.Name}

	if tok.Kind == TokenFunction {
		fn.builtin = builtins[tok.Name]
	} else {
		ext, ok := p.cfg.reg.Lookup(tok.Name)
		if !ok {
			return tok, newParseError(UnrecognizedValue, tok, p.raw)
		}

		fn.ext = ext
	}

	p.attach(fn)
	p.stack = append(p.stack, frame{node: fn, tok: tok})

	// A function name must be applied immediately.
	next, ok := p.lex.tryNext()
	if !ok {
		return tok, newParseError(ExpectedStartParameter, tok, p.raw)
	}

	if next.Kind != TokenStartParameter {
		return tok, newParseError(ExpectedStartParameter, next, p.raw)
	}

	return next, nil
}

// handleStartIndex rewrites the most recent expression into the target of
// a new open indexer.
func (p *parser) handleStartIndex(tok Token) error {
	idx, err := p.beginIndexer(tok)
	if err != nil {
		return err
	}

	p.stack = append(p.stack, frame{node: idx, tok: tok})

	return nil
}

// handleDereference is the '.' form of indexing: it requires a property
// name lookahead, wraps it as a string leaf, and closes immediately.
func (p *parser) handleDereference(tok Token) (Token, error) {
	idx, err := p.beginIndexer(tok)
	if err != nil {
		return tok, err
	}

	next, ok := p.lex.tryNext()
	if !ok {
		return tok, newParseError(ExpectedPropertyName, tok, p.raw)
	}

	if next.Kind != TokenPropertyName {
		return tok, newParseError(ExpectedPropertyName, next, p.raw)
	}

	idx.index = &leafNode{value: NewString(next.Name)}

	return next, nil
}

// beginIndexer validates indexing position and replaces the most recent
// expression with a new indexer whose target is that expression.
func (p *parser) beginIndexer(tok Token) (*indexerNode, error) {
	if !p.mayIndex() {
		return nil, newParseError(UnexpectedSymbol, tok, p.raw)
	}

	idx := &indexerNode{}

	if len(p.stack) == 0 {
		if p.root == nil {
			return nil, newParseError(UnexpectedSymbol, tok, p.raw)
		}

		idx.target = p.root
		p.root = idx

		return idx, nil
	}

	switch c := p.stack[len(p.stack)-1].node.(type) {
	case *funcNode:
		if len(c.args) == 0 {
			return nil, newParseError(UnexpectedSymbol, tok, p.raw)
		}

		idx.target = c.args[len(c.args)-1]
		c.args[len(c.args)-1] = idx

	case *indexerNode:
		if c.index == nil {
			return nil, newParseError(UnexpectedSymbol, tok, p.raw)
		}

		idx.target = c.index
		c.index = idx
	}

	return idx, nil
}

func (p *parser) handleEndParameter(tok Token) error {
	fn, ok := p.innermostFunc()
	if !ok || len(fn.args) < fn.minParams() ||
		(p.hasLast && p.last.Kind == TokenSeparator) {
		return newParseError(UnexpectedSymbol, tok, p.raw)
	}

	p.stack = p.stack[:len(p.stack)-1]

	return nil
}

func (p *parser) handleEndIndex(tok Token) error {
	if len(p.stack) == 0 {
		return newParseError(UnexpectedSymbol, tok, p.raw)
	}

	idx, ok := p.stack[len(p.stack)-1].node.(*indexerNode)
	if !ok || idx.index == nil {
		return newParseError(UnexpectedSymbol, tok, p.raw)
	}

	p.stack = p.stack[:len(p.stack)-1]

	return nil
}

func (p *parser) handleSeparator(tok Token) error {
	fn, ok := p.innermostFunc()
	if !ok || len(fn.args) == 0 || len(fn.args) >= fn.maxParams() ||
		(p.hasLast && p.last.Kind == TokenSeparator) {
		return newParseError(UnexpectedSymbol, tok, p.raw)
	}

	return nil
}

// innermostFunc returns the innermost open container when it is a
// function node.
func (p *parser) innermostFunc() (*funcNode, bool) {
	if len(p.stack) == 0 {
		return nil, false
	}

	fn, ok := p.stack[len(p.stack)-1].node.(*funcNode)

	return fn, ok
}

// trace writes a parse-time verbose line.
func (p *parser) trace(msg string) {
	if p.cfg.trace == nil {
		return
	}

	p.cfg.trace.Verbose(msg)
}
