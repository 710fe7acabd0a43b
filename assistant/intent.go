package assistant

// Intents 从关键词识别出的意图，可以同时成立
type Intents struct {
	List      bool
	Total     bool
	Remaining bool
}

var (
	listKeywords = []string{
		"list", "show", "detail", "which", "display",
		"liste", "affiche", "détail", "quels", "montre",
	}
	totalKeywords = []string{
		"total", "how much", "spent", "total expense", "sum",
		"combien", "dépensé", "dépense totale", "somme",
	}
	remainingKeywords = []string{
		"remaining", "left", "budget remaining", "how much is left",
		"reste", "restant", "budget restant", "encore combien",
	}
)

// ClassifyIntents text 须已转为小写
func ClassifyIntents(text string) Intents {
	return Intents{
		List:      containsAny(text, listKeywords...),
		Total:     containsAny(text, totalKeywords...),
		Remaining: containsAny(text, remainingKeywords...),
	}
}

// WantsTotal 没有任何意图时默认回答总额
func (i Intents) WantsTotal() bool {
	return i.Total || !(i.List || i.Remaining)
}
