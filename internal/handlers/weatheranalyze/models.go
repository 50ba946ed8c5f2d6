package weatheranalyze

type Request struct {
	Location string `json:"location"`
}
