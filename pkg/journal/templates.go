package journal

var builtinTemplates = []Template{
	{
		ID:          "gratitude",
		Name:        "Gratitude",
		Description: "Three things you are thankful for today.",
		Title:       "Today I'm grateful for",
		Content:     "<p>1. </p><p>2. </p><p>3. </p><p>Why these mattered:</p>",
		Tags:        []string{"gratitude"},
	},
	{
		ID:          "daily-reflection",
		Name:        "Daily reflection",
		Description: "Look back at how the day went.",
		Title:       "Daily reflection",
		Content:     "<p>What went well today?</p><p>What was difficult?</p><p>What would I do differently?</p>",
		Tags:        []string{"reflection"},
	},
	{
		ID:          "goal-setting",
		Name:        "Goal setting",
		Description: "Pick a goal and the next small step toward it.",
		Title:       "Goals",
		Content:     "<p>The goal:</p><p>Why it matters to me:</p><p>My next step:</p>",
		Tags:        []string{"goals", "personal growth"},
	},
	{
		ID:          "free-write",
		Name:        "Free write",
		Description: "No structure, just write.",
		Title:       "Free write",
		Content:     "<p></p>",
	},
}

func findTemplate(id string) (Template, bool) {
	for _, t := range builtinTemplates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}
