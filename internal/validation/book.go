package validation

// CreateBookRules are applied to POST bodies. Every field is required.
var CreateBookRules = Rules{
	{Field: "title", Check: NotEmpty, Message: "Title is required"},
	{Field: "title", Check: IsString, Message: "Title must be a string"},
	{Field: "author", Check: NotEmpty, Message: "Author is required"},
	{Field: "author", Check: IsString, Message: "Author must be a string"},
	{Field: "publishedYear", Check: NotEmpty, Message: "Published year is required"},
	{Field: "publishedYear", Check: IsNonNegativeInt, Message: "Published year must be a positive integer"},
	{Field: "genres", Check: NotEmpty, Message: "Genres are required"},
	{Field: "genres", Check: IsArray, Message: "Genres must be an array"},
	{Field: "genres", Check: IsStringArray, Message: "Genres must contain only strings"},
	{Field: "stock", Check: NotEmpty, Message: "Stock is required"},
	{Field: "stock", Check: IsNonNegativeInt, Message: "Stock must be a positive integer"},
}

// UpdateBookRules are applied to PUT bodies. Fields may be omitted but must
// be well typed when present.
var UpdateBookRules = Rules{
	{Field: "title", Check: Optional(IsString), Message: "Title must be a string"},
	{Field: "author", Check: Optional(IsString), Message: "Author must be a string"},
	{Field: "publishedYear", Check: Optional(IsNonNegativeInt), Message: "Published year must be a positive integer"},
	{Field: "genres", Check: Optional(IsArray), Message: "Genres must be an array"},
	{Field: "genres", Check: Optional(IsStringArray), Message: "Genres must contain only strings"},
	{Field: "stock", Check: Optional(IsNonNegativeInt), Message: "Stock must be a positive integer"},
}

// CoerceBookPayload wraps a scalar genres value into a single-element
// array so a lone genre validates the same as a list of one.
func CoerceBookPayload(payload map[string]any) {
	v, ok := payload["genres"]
	if !ok || v == nil {
		return
	}
	switch v.(type) {
	case []any, map[string]any:
		return
	}
	payload["genres"] = []any{v}
}
