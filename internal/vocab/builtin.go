package vocab

// builtinEntries is the reference glossary shipped with the reader.
var builtinEntries = []Entry{
	{Word: "Iranian", Translation: "伊朗的"},
	{Word: "President", Translation: "总统"},
	{Word: "Masoud Pezeshkian", Translation: "马苏德·佩泽什基安（人名）"},
	{Word: "country", Translation: "国家"},
	{Word: "bow", Translation: "屈服，弯腰"},
	{Word: "external", Translation: "外部的"},
	{Word: "pressure", Translation: "压力"},
	{Word: "continues", Translation: "继续"},
	{Word: "nuclear", Translation: "核能的"},
	{Word: "negotiations", Translation: "谈判"},
	{Word: "United States", Translation: "美国"},
}

// Builtin returns the compiled-in reference dictionary.
func Builtin() *Dictionary {
	dictionary, err := New(builtinEntries)
	if err != nil {
		panic(err)
	}

	return dictionary
}
