package schema

// Likert scale labels used by the two questionnaires.
var (
	bsqScale = []string{"Never", "Rarely", "Sometimes", "Often", "Very Often", "Always"}
	wcbScale = []string{"Never", "Rarely", "Sometimes", "Often", "Very Often"}
)

var bsqQuestions = []string{
	"Has feeling bored made you brood about your shape?",
	"Have you thought that your thighs, hips or bottom are too large for the rest of you?",
	"Have you felt so bad about your shape that you have cried?",
	"Have you avoided running because your flesh might wobble?",
	"Has being with thin people of your same gender made you feel self-conscious about your shape?",
	"Have you worried about your thighs spreading out when sitting down?",
	"Has eating sweets, cakes, or other high calorie food made you feel fat?",
	"Has worry about your shape made you feel you ought to exercise?",
}

var wcbQuestions = []string{
	"Dieted or restricted food intake (eating less than you wanted to lose weight)",
	"Skipped meals to control your weight",
	"Exercised excessively to lose weight (e.g., working out multiple times a day)",
	"Fasted for 24 hours or more to lose weight",
	"Taken diet pills, supplements, or herbal products for weight loss",
	"Vomited or used laxatives after eating to control weight",
	"Tracked calories obsessively (using apps, journals, etc.)",
	"Followed detox diets or cleanses for weight loss",
}

// Default returns the built-in survey schema: participant information and
// consent, the Body Shape Questionnaire (BSQ-8A), and the Weight Control
// Behaviours checklist.
func Default() *Form {
	participant := Section{
		Name: "Participant Information",
		Fields: []Field{
			{Prompt: "I Agree", Kind: KindCheckbox, Checked: true},
			{Prompt: "Name or Initials", Kind: KindText, Value: "${initials()}", MaxLen: 2},
			{Prompt: "E-mail ID", Kind: KindText,
				Value: "${random_string(8)}@${pick(gmail.com,yahoo.com,outlook.com,hotmail.com)}"},
			{Prompt: "Age", Kind: KindText, Value: "${random(16,25)}"},
			{Prompt: "City, State", Kind: KindText, Value: "${pick(" +
				"New York NY,Los Angeles CA,Chicago IL,Houston TX,Phoenix AZ," +
				"Philadelphia PA,San Antonio TX,San Diego CA,Dallas TX,San Jose CA," +
				"Austin TX,Jacksonville FL,Bangalore Karnataka,Mumbai Maharashtra," +
				"Jaipur Rajasthan,Chennai Tamil Nadu,Mysore Karnataka,Delhi New Delhi)}"},
			{Prompt: "Height", Kind: KindText, Value: "${random(150,195)} cm"},
			{Prompt: "Weight", Kind: KindText, Value: "${random(45,100)} kg"},
			{Prompt: "Gender", Kind: KindChoice, Options: []string{"Female", "Male"}},
		},
	}

	bsq := Section{Name: "Body Shape Questionnaire (BSQ-8A)"}
	for _, q := range bsqQuestions {
		bsq.Fields = append(bsq.Fields, Field{Prompt: q, Kind: KindChoice, Options: bsqScale})
	}

	wcb := Section{Name: "Weight Control Behaviours Checklist"}
	for _, q := range wcbQuestions {
		wcb.Fields = append(wcb.Fields, Field{Prompt: q, Kind: KindChoice, Options: wcbScale})
	}

	return &Form{
		Name:     "body-image-survey",
		Sections: []Section{participant, bsq, wcb},
	}
}
