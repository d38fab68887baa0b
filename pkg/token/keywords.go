package token

import (
	"slices"
	"strings"
)

// Keyword token types. Keywords always win over identifiers in the lexer;
// the parser accepts non-reserved keywords wherever an identifier is
// expected, so only the reserved subset below is truly unavailable as a name.
//
//nolint:revive // ALL_CAPS names follow SQL token conventions
const (
	// Declaration language
	COMP TokenType = keywordStart + 1 + iota
	DATASET
	EXPR
	FN
	IMPORT
	OUT
	RETURN
	VAL

	// Query structure
	ALL
	AND
	ANY
	ARRAY
	AS
	ASC
	BETWEEN
	BY
	CASE
	CAST
	COLLATE
	CROSS
	CURRENT
	DESC
	DISTINCT
	ELSE
	END
	EXCEPT
	EXCLUDE
	EXISTS
	FALSE
	FETCH
	FILTER
	FIRST
	FOLLOWING
	FROM
	FULL
	GROUP
	GROUPS
	HAVING
	ILIKE
	IN
	INNER
	INTERSECT
	INTERVAL
	IS
	JOIN
	LAST
	LATERAL
	LEFT
	LIKE
	LIMIT
	MATERIALIZED
	NATURAL
	NO
	NOT
	NULL
	NULLS
	OFFSET
	ON
	ONLY
	OR
	ORDER
	OTHERS
	OUTER
	OVER
	PARTITION
	PRECEDING
	RANGE
	RECURSIVE
	RIGHT
	ROW
	ROWS
	SELECT
	SEPARATOR
	SIMILAR
	SOME
	THEN
	TIES
	TO
	TRUE
	UNBOUNDED
	UNION
	USING
	VALUES
	WHEN
	WHERE
	WINDOW
	WITH
	WITHIN
	WITHOUT

	// Data types
	BIGINT
	BIGSERIAL
	BINARY
	BIT
	BOOLEAN
	BOX
	BYTEA
	CHAR
	CIDR
	CIRCLE
	DATE
	DATETIME
	DECIMAL
	DOUBLE
	ENUM
	FLOAT
	GEOGRAPHY
	GEOMETRY
	INET
	INT
	JSON
	JSONB
	LINE
	LSEG
	MACADDR
	MEDIUMINT
	MONEY
	NUMERIC
	NVARCHAR
	OID
	PATH
	POINT
	POLYGON
	REAL
	REGCLASS
	REGPROC
	REGTYPE
	SERIAL
	SMALLINT
	SMALLSERIAL
	TEXT
	TIME
	TIMESTAMP
	TIMESTAMPTZ
	TIMETZ
	TINYINT
	TSQUERY
	TSVECTOR
	UUID
	VARBINARY
	VARCHAR
	VARYING
	XML
	ZONE

	// Statement and definition vocabulary
	ACTION
	ADD
	ADMIN
	AFTER
	ALTER
	ALWAYS
	ANALYZE
	ATTACH
	AUTHORIZATION
	AUTO_INCREMENT
	BEFORE
	BEGIN
	CASCADE
	CHECK
	COLUMN
	COLUMNS
	COMMENT
	COMMIT
	CONCURRENTLY
	CONFLICT
	CONSTRAINT
	COPY
	COST
	CREATE
	CSV
	CURRENT_DATE
	CURRENT_TIME
	CURRENT_TIMESTAMP
	CURRENT_USER
	CYCLE
	DATABASE
	DEFAULT
	DEFERRABLE
	DEFERRED
	DELETE
	DELIMITER
	DETACH
	DISABLE
	DO
	DROP
	EACH
	ENABLE
	ENCODING
	ENGINE
	ESCAPE
	EXECUTE
	EXPLAIN
	EXTENSION
	EXTERNAL
	FORCE
	FOREIGN
	FORMAT
	FUNCTION
	GENERATED
	GRANT
	HEADER
	IDENTITY
	IF
	IGNORE
	IMMEDIATE
	IMMUTABLE
	INCLUDE
	INCREMENT
	INDEX
	INHERIT
	INITIALLY
	INSERT
	INSTEAD
	INTO
	INVOKER
	KEY
	LANGUAGE
	LOCAL
	LOCATION
	LOCK
	LOGGED
	MATCH
	MAXVALUE
	MERGE
	MINVALUE
	MODE
	MODIFY
	NEW
	NOTHING
	NOWAIT
	OF
	OLD
	OPTION
	OPTIONS
	OWNED
	OWNER
	PARALLEL
	PARQUET
	PASSWORD
	POLICY
	PRECISION
	PRIMARY
	PRIVILEGES
	PROCEDURE
	PUBLIC
	READ
	REFERENCES
	REFRESH
	RENAME
	REPLACE
	RESET
	RESTRICT
	RETURNING
	RETURNS
	REVOKE
	ROLE
	ROLLBACK
	SCHEMA
	SECURITY
	SEQUENCE
	SET
	SETOF
	SHOW
	SKIP
	STABLE
	START
	STATEMENT
	STATISTICS
	STORED
	STRICT
	TABLE
	TABLES
	TABLESPACE
	TEMP
	TEMPORARY
	TRANSACTION
	TRIGGER
	TRUNCATE
	TYPE
	UNIQUE
	UNLOGGED
	UPDATE
	USER
	VACUUM
	VALUE
	VARIADIC
	VERBOSE
	VIEW
	VOLATILE
	WRITE

	keywordEnd
)

// keywordNames maps keyword token types to their canonical upper-case
// spelling. The lower-case form of each name is what the lexer matches.
var keywordNames = map[TokenType]string{
	COMP: "COMP", DATASET: "DATASET", EXPR: "EXPR", FN: "FN", IMPORT: "IMPORT",
	OUT: "OUT", RETURN: "RETURN", VAL: "VAL",

	ALL: "ALL", AND: "AND", ANY: "ANY", ARRAY: "ARRAY", AS: "AS", ASC: "ASC",
	BETWEEN: "BETWEEN", BY: "BY", CASE: "CASE", CAST: "CAST", COLLATE: "COLLATE",
	CROSS: "CROSS", CURRENT: "CURRENT", DESC: "DESC", DISTINCT: "DISTINCT",
	ELSE: "ELSE", END: "END", EXCEPT: "EXCEPT", EXCLUDE: "EXCLUDE", EXISTS: "EXISTS",
	FALSE: "FALSE", FETCH: "FETCH", FILTER: "FILTER", FIRST: "FIRST",
	FOLLOWING: "FOLLOWING", FROM: "FROM", FULL: "FULL", GROUP: "GROUP",
	GROUPS: "GROUPS", HAVING: "HAVING", ILIKE: "ILIKE", IN: "IN", INNER: "INNER",
	INTERSECT: "INTERSECT", INTERVAL: "INTERVAL", IS: "IS", JOIN: "JOIN",
	LAST: "LAST", LATERAL: "LATERAL", LEFT: "LEFT", LIKE: "LIKE", LIMIT: "LIMIT",
	MATERIALIZED: "MATERIALIZED", NATURAL: "NATURAL", NO: "NO", NOT: "NOT",
	NULL: "NULL", NULLS: "NULLS", OFFSET: "OFFSET", ON: "ON", ONLY: "ONLY",
	OR: "OR", ORDER: "ORDER", OTHERS: "OTHERS", OUTER: "OUTER", OVER: "OVER",
	PARTITION: "PARTITION", PRECEDING: "PRECEDING", RANGE: "RANGE",
	RECURSIVE: "RECURSIVE", RIGHT: "RIGHT", ROW: "ROW", ROWS: "ROWS",
	SELECT: "SELECT", SEPARATOR: "SEPARATOR", SIMILAR: "SIMILAR", SOME: "SOME",
	THEN: "THEN", TIES: "TIES", TO: "TO", TRUE: "TRUE", UNBOUNDED: "UNBOUNDED",
	UNION: "UNION", USING: "USING", VALUES: "VALUES", WHEN: "WHEN",
	WHERE: "WHERE", WINDOW: "WINDOW", WITH: "WITH", WITHIN: "WITHIN",
	WITHOUT: "WITHOUT",

	BIGINT: "BIGINT", BIGSERIAL: "BIGSERIAL", BINARY: "BINARY", BIT: "BIT",
	BOOLEAN: "BOOLEAN", BOX: "BOX", BYTEA: "BYTEA", CHAR: "CHAR", CIDR: "CIDR",
	CIRCLE: "CIRCLE", DATE: "DATE", DATETIME: "DATETIME", DECIMAL: "DECIMAL",
	DOUBLE: "DOUBLE", ENUM: "ENUM", FLOAT: "FLOAT", GEOGRAPHY: "GEOGRAPHY",
	GEOMETRY: "GEOMETRY", INET: "INET", INT: "INT", JSON: "JSON", JSONB: "JSONB",
	LINE: "LINE", LSEG: "LSEG", MACADDR: "MACADDR", MEDIUMINT: "MEDIUMINT",
	MONEY: "MONEY", NUMERIC: "NUMERIC", NVARCHAR: "NVARCHAR", OID: "OID",
	PATH: "PATH", POINT: "POINT", POLYGON: "POLYGON", REAL: "REAL",
	REGCLASS: "REGCLASS", REGPROC: "REGPROC", REGTYPE: "REGTYPE",
	SERIAL: "SERIAL", SMALLINT: "SMALLINT", SMALLSERIAL: "SMALLSERIAL",
	TEXT: "TEXT", TIME: "TIME", TIMESTAMP: "TIMESTAMP", TIMESTAMPTZ: "TIMESTAMPTZ",
	TIMETZ: "TIMETZ", TINYINT: "TINYINT", TSQUERY: "TSQUERY",
	TSVECTOR: "TSVECTOR", UUID: "UUID", VARBINARY: "VARBINARY",
	VARCHAR: "VARCHAR", VARYING: "VARYING", XML: "XML", ZONE: "ZONE",

	ACTION: "ACTION", ADD: "ADD", ADMIN: "ADMIN", AFTER: "AFTER", ALTER: "ALTER",
	ALWAYS: "ALWAYS", ANALYZE: "ANALYZE", ATTACH: "ATTACH",
	AUTHORIZATION: "AUTHORIZATION", AUTO_INCREMENT: "AUTO_INCREMENT",
	BEFORE: "BEFORE", BEGIN: "BEGIN", CASCADE: "CASCADE", CHECK: "CHECK",
	COLUMN: "COLUMN", COLUMNS: "COLUMNS", COMMENT: "COMMENT", COMMIT: "COMMIT",
	CONCURRENTLY: "CONCURRENTLY", CONFLICT: "CONFLICT",
	CONSTRAINT: "CONSTRAINT", COPY: "COPY", COST: "COST", CREATE: "CREATE",
	CSV: "CSV", CURRENT_DATE: "CURRENT_DATE", CURRENT_TIME: "CURRENT_TIME",
	CURRENT_TIMESTAMP: "CURRENT_TIMESTAMP", CURRENT_USER: "CURRENT_USER",
	CYCLE: "CYCLE", DATABASE: "DATABASE", DEFAULT: "DEFAULT",
	DEFERRABLE: "DEFERRABLE", DEFERRED: "DEFERRED", DELETE: "DELETE",
	DELIMITER: "DELIMITER", DETACH: "DETACH", DISABLE: "DISABLE", DO: "DO",
	DROP: "DROP", EACH: "EACH", ENABLE: "ENABLE", ENCODING: "ENCODING",
	ENGINE: "ENGINE", ESCAPE: "ESCAPE", EXECUTE: "EXECUTE", EXPLAIN: "EXPLAIN",
	EXTENSION: "EXTENSION", EXTERNAL: "EXTERNAL", FORCE: "FORCE",
	FOREIGN: "FOREIGN", FORMAT: "FORMAT", FUNCTION: "FUNCTION",
	GENERATED: "GENERATED", GRANT: "GRANT", HEADER: "HEADER",
	IDENTITY: "IDENTITY", IF: "IF", IGNORE: "IGNORE", IMMEDIATE: "IMMEDIATE",
	IMMUTABLE: "IMMUTABLE", INCLUDE: "INCLUDE", INCREMENT: "INCREMENT",
	INDEX: "INDEX", INHERIT: "INHERIT", INITIALLY: "INITIALLY",
	INSERT: "INSERT", INSTEAD: "INSTEAD", INTO: "INTO", INVOKER: "INVOKER",
	KEY: "KEY", LANGUAGE: "LANGUAGE", LOCAL: "LOCAL", LOCATION: "LOCATION",
	LOCK: "LOCK", LOGGED: "LOGGED", MATCH: "MATCH", MAXVALUE: "MAXVALUE",
	MERGE: "MERGE", MINVALUE: "MINVALUE", MODE: "MODE", MODIFY: "MODIFY",
	NEW: "NEW", NOTHING: "NOTHING", NOWAIT: "NOWAIT", OF: "OF", OLD: "OLD",
	OPTION: "OPTION", OPTIONS: "OPTIONS", OWNED: "OWNED", OWNER: "OWNER",
	PARALLEL: "PARALLEL", PARQUET: "PARQUET", PASSWORD: "PASSWORD",
	POLICY: "POLICY", PRECISION: "PRECISION", PRIMARY: "PRIMARY",
	PRIVILEGES: "PRIVILEGES", PROCEDURE: "PROCEDURE", PUBLIC: "PUBLIC",
	READ: "READ", REFERENCES: "REFERENCES", REFRESH: "REFRESH",
	RENAME: "RENAME", REPLACE: "REPLACE", RESET: "RESET", RESTRICT: "RESTRICT",
	RETURNING: "RETURNING", RETURNS: "RETURNS", REVOKE: "REVOKE", ROLE: "ROLE",
	ROLLBACK: "ROLLBACK", SCHEMA: "SCHEMA", SECURITY: "SECURITY",
	SEQUENCE: "SEQUENCE", SET: "SET", SETOF: "SETOF", SHOW: "SHOW", SKIP: "SKIP",
	STABLE: "STABLE", START: "START", STATEMENT: "STATEMENT",
	STATISTICS: "STATISTICS", STORED: "STORED", STRICT: "STRICT",
	TABLE: "TABLE", TABLES: "TABLES", TABLESPACE: "TABLESPACE", TEMP: "TEMP",
	TEMPORARY: "TEMPORARY", TRANSACTION: "TRANSACTION", TRIGGER: "TRIGGER",
	TRUNCATE: "TRUNCATE", TYPE: "TYPE", UNIQUE: "UNIQUE", UNLOGGED: "UNLOGGED",
	UPDATE: "UPDATE", USER: "USER", VACUUM: "VACUUM", VALUE: "VALUE",
	VARIADIC: "VARIADIC", VERBOSE: "VERBOSE", VIEW: "VIEW",
	VOLATILE: "VOLATILE", WRITE: "WRITE",
}

// reserved holds the keywords that can never stand in for an identifier.
// Everything else in the keyword range is usable as a column, table,
// property or component name.
var reserved = map[TokenType]struct{}{
	ALL: {}, AND: {}, ANY: {}, ARRAY: {}, AS: {}, ASC: {}, BETWEEN: {}, BY: {},
	CASE: {}, CAST: {}, COLLATE: {}, CROSS: {}, DESC: {}, DISTINCT: {}, ELSE: {},
	END: {}, EXCEPT: {}, EXISTS: {}, FALSE: {}, FETCH: {}, FILTER: {}, FROM: {},
	FULL: {}, GROUP: {}, HAVING: {}, ILIKE: {}, IN: {}, INNER: {}, INTERSECT: {},
	INTERVAL: {}, IS: {}, JOIN: {}, LATERAL: {}, LEFT: {}, LIKE: {}, LIMIT: {},
	NATURAL: {}, NOT: {}, NULL: {}, OFFSET: {}, ON: {}, ONLY: {}, OR: {},
	ORDER: {}, OUTER: {}, OVER: {}, RIGHT: {}, SELECT: {}, SIMILAR: {}, SOME: {},
	THEN: {}, TRUE: {}, UNION: {}, USING: {}, VALUES: {}, WHEN: {}, WHERE: {},
	WINDOW: {}, WITH: {},
}

// keywords maps lower-case spellings to keyword token types.
var keywords = func() map[string]TokenType {
	m := make(map[string]TokenType, len(keywordNames)+len(synonyms))
	for t, name := range keywordNames {
		m[strings.ToLower(name)] = t
	}
	for word, t := range synonyms {
		m[word] = t
	}
	return m
}()

// LookupIdent returns the keyword token type for ident, or IDENT if ident
// is not a keyword. Matching is case-insensitive.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[strings.ToLower(ident)]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t > keywordStart && t < keywordEnd
}

// IsReserved returns true if the keyword cannot be used as an identifier.
func IsReserved(t TokenType) bool {
	_, ok := reserved[t]
	return ok
}

// IsIdentLike returns true for tokens the parser accepts as a name:
// identifiers and non-reserved keywords.
func IsIdentLike(t TokenType) bool {
	return IsIdentifier(t) || (IsKeyword(t) && !IsReserved(t))
}

// Keywords returns the canonical spelling of every keyword.
func Keywords() []string {
	out := make([]string, 0, len(keywordNames))
	for _, name := range keywordNames {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
