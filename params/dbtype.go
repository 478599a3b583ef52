package params

import "strings"

// DbType is the target database type hint of a parameter.
// DbTypeUnset leaves the choice to the execution layer.
type DbType int

const (
	DbTypeUnset DbType = iota
	AnsiString
	String
	AnsiStringFixedLength
	StringFixedLength
	Byte
	Int16
	Int32
	Int64
	Boolean
	Decimal
	Currency
	Single
	Double
	Date
	DateTime
	DateTime2
	DateTimeOffset
	Time
	Guid
	Binary
	Xml
	JSON
)

var dbTypeNames = [...]string{
	DbTypeUnset:           "",
	AnsiString:            "AnsiString",
	String:                "String",
	AnsiStringFixedLength: "AnsiStringFixedLength",
	StringFixedLength:     "StringFixedLength",
	Byte:                  "Byte",
	Int16:                 "Int16",
	Int32:                 "Int32",
	Int64:                 "Int64",
	Boolean:               "Boolean",
	Decimal:               "Decimal",
	Currency:              "Currency",
	Single:                "Single",
	Double:                "Double",
	Date:                  "Date",
	DateTime:              "DateTime",
	DateTime2:             "DateTime2",
	DateTimeOffset:        "DateTimeOffset",
	Time:                  "Time",
	Guid:                  "Guid",
	Binary:                "Binary",
	Xml:                   "Xml",
	JSON:                  "Json",
}

func (t DbType) String() string {
	if t < 0 || int(t) >= len(dbTypeNames) {
		return "DbType(?)"
	}
	return dbTypeNames[t]
}

type sizeKind int

const (
	sizeNone sizeKind = iota
	// DefaultStringSize unless given
	sizeVariable
	// value length unless given
	sizeFixed
	// (precision, scale)
	sizePrecision
)

type typeInfo struct {
	dbType DbType
	size   sizeKind
}

// sqlTypes maps format type names (lower case) to descriptors.
var sqlTypes = map[string]typeInfo{
	// Character types
	"varchar":   {AnsiString, sizeVariable},
	"nvarchar":  {String, sizeVariable},
	"char":      {AnsiStringFixedLength, sizeFixed},
	"nchar":     {StringFixedLength, sizeFixed},
	"text":      {AnsiString, sizeVariable},
	"ntext":     {String, sizeVariable},

	// Numeric types
	"tinyint":  {Byte, sizeNone},
	"smallint": {Int16, sizeNone},
	"int":      {Int32, sizeNone},
	"integer":  {Int32, sizeNone},
	"bigint":   {Int64, sizeNone},
	"bit":      {Boolean, sizeNone},
	"bool":     {Boolean, sizeNone},
	"boolean":  {Boolean, sizeNone},
	"decimal":  {Decimal, sizePrecision},
	"numeric":  {Decimal, sizePrecision},
	"money":    {Currency, sizeNone},
	"real":     {Single, sizeNone},
	"float":    {Double, sizeNone},
	"double":   {Double, sizeNone},

	// Date and time
	"date":           {Date, sizeNone},
	"datetime":       {DateTime, sizeNone},
	"datetime2":      {DateTime2, sizeNone},
	"datetimeoffset": {DateTimeOffset, sizeNone},
	"time":           {Time, sizeNone},

	// Other
	"uniqueidentifier": {Guid, sizeNone},
	"guid":             {Guid, sizeNone},
	"uuid":             {Guid, sizeNone},
	"binary":           {Binary, sizeFixed},
	"varbinary":        {Binary, sizeVariable},
	"xml":              {Xml, sizeNone},
	"json":             {JSON, sizeNone},
}

func lookupType(name string) (typeInfo, bool) {
	info, ok := sqlTypes[strings.ToLower(name)]
	return info, ok
}
