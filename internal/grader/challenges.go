package grader

// Challenge is a fill-in-the-blank exercise. The template contains
// Placeholder markers where the answer goes; ExpectedOutput is the template
// with every blank filled.
type Challenge struct {
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Difficulty     string   `json:"difficulty"`
	Template       string   `json:"template"`
	ExpectedOutput string   `json:"expectedOutput"`
	Hints          []string `json:"hints"`
}

var challenges = []Challenge{
	{
		ID:          1,
		Title:       "Simple Button with Hover Effect",
		Description: "Create a button that changes color when you hover over it.",
		Difficulty:  "Easy",
		Template: `<style>
  button {
    padding: 10px 20px;
    font-size: 16px;
    cursor: pointer;
    background-color: ___;
    transition: ___;
  }

  button:___ {
    background-color: green;
  }
</style>

<button>Hover Me</button>`,
		ExpectedOutput: `<style>
  button {
    padding: 10px 20px;
    font-size: 16px;
    cursor: pointer;
    background-color: blue;
    transition: 0.3s;
  }

  button:hover {
    background-color: green;
  }
</style>

<button>Hover Me</button>`,
		Hints: []string{},
	},
}

// Challenges returns the static challenge set.
func Challenges() []Challenge {
	return challenges
}

// ChallengeByID returns the challenge with the given ID, or false.
func ChallengeByID(id int) (Challenge, bool) {
	for _, c := range challenges {
		if c.ID == id {
			return c, true
		}
	}
	return Challenge{}, false
}
