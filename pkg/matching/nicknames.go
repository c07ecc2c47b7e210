package matching

// nicknameTable maps a canonical first name to its common short forms.
// Loaded once; the normalizer folds these into name variations so that
// "Bob Smith" can line up with a lead entered as "Robert Smith".
var nicknameTable = map[string][]string{
	"robert":      {"rob", "bob", "bobby"},
	"william":     {"will", "bill", "billy", "liam"},
	"richard":     {"rich", "rick", "dick"},
	"michael":     {"mike", "mikey"},
	"christopher": {"chris", "topher"},
	"matthew":     {"matt"},
	"anthony":     {"tony"},
	"andrew":      {"andy", "drew"},
	"daniel":      {"dan", "danny"},
	"david":       {"dave", "davey"},
	"edward":      {"ed", "eddie", "ted"},
	"thomas":      {"tom", "tommy"},
	"james":       {"jim", "jimmy", "jamie"},
	"john":        {"jack", "johnny"},
	"joseph":      {"joe", "joey"},
	"charles":     {"charlie", "chuck"},
	"donald":      {"don", "donnie"},
	"kenneth":     {"ken", "kenny"},
	"steven":      {"steve"},
	"stephen":     {"steve"},
	"nicholas":    {"nick"},
	"timothy":     {"tim", "timmy"},
	"benjamin":    {"ben", "benny"},
	"samuel":      {"sam", "sammy"},
	"gregory":     {"greg"},
	"lawrence":    {"larry"},
	"ronald":      {"ron", "ronnie"},
	"elizabeth":   {"liz", "beth", "betty", "eliza"},
	"katherine":   {"kate", "katie", "kathy"},
	"catherine":   {"cathy", "cate"},
	"margaret":    {"maggie", "meg", "peggy"},
	"jennifer":    {"jen", "jenny"},
	"jessica":     {"jess", "jessie"},
	"patricia":    {"pat", "patty", "tricia"},
	"barbara":     {"barb", "barbie"},
	"susan":       {"sue", "suzy"},
	"deborah":     {"deb", "debbie"},
	"rebecca":     {"becky", "becca"},
	"kimberly":    {"kim"},
	"victoria":    {"vicky", "tori"},
	"alexandra":   {"alex", "lexi", "sandra"},
	"alexander":   {"alex", "xander"},
	"samantha":    {"sam"},
	"stephanie":   {"steph"},
	"christina":   {"chris", "tina"},
	"amanda":      {"mandy"},
	"melissa":     {"mel", "missy"},
}

// nicknamesFor returns the configured short forms for a first name. Names
// without an entry default to themselves only.
func nicknamesFor(first string) []string {
	if aliases, ok := nicknameTable[first]; ok {
		return aliases
	}
	return nil
}
