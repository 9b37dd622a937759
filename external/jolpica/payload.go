package jolpica

type mrDataEnvelope struct {
	MRData struct {
		Limit     string    `json:"limit"`
		Offset    string    `json:"offset"`
		Total     string    `json:"total"`
		RaceTable raceTable `json:"RaceTable"`
	} `json:"MRData"`
}

type raceTable struct {
	Season string     `json:"season"`
	Races  []raceItem `json:"Races"`
}

type raceItem struct {
	Season   string `json:"season"`
	Round    string `json:"round"`
	RaceName string `json:"raceName"`
	Circuit  struct {
		CircuitName string `json:"circuitName"`
		Location    struct {
			Locality string `json:"locality"`
			Country  string `json:"country"`
		} `json:"Location"`
	} `json:"Circuit"`
	Date          string       `json:"date"`
	Time          string       `json:"time"`
	FirstPractice *sessionTime `json:"FirstPractice"`
	Qualifying    *sessionTime `json:"Qualifying"`
	Results       []resultItem `json:"Results"`
}

type sessionTime struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type resultItem struct {
	Position string `json:"position"`
	Points   string `json:"points"`
	Status   string `json:"status"`
	Driver   struct {
		Code            string `json:"code"`
		PermanentNumber string `json:"permanentNumber"`
		GivenName       string `json:"givenName"`
		FamilyName      string `json:"familyName"`
		Nationality     string `json:"nationality"`
	} `json:"Driver"`
}
