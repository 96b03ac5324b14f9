package reject

// Problem is the error payload returned to clients. Only the message crosses
// the wire; status and code exist for handler plumbing and logs.
type Problem struct {
	Message string `json:"error"`
	Status  int    `json:"-"`
	Code    string `json:"-"`
}

func NewProblem() *Problem {
	return &Problem{}
}

func (p *Problem) WithMessage(message string) *Problem {
	p.Message = message
	return p
}

func (p *Problem) WithStatus(status int) *Problem {
	p.Status = status
	return p
}

func (p *Problem) WithCode(code string) *Problem {
	p.Code = code
	return p
}

func (p *Problem) Build() Problem {
	return *p
}
