package parse

import (
	"fmt"

	"github.com/yashagw/clinicdb/internal/parse/parserdata"
	"github.com/yashagw/clinicdb/internal/query"
	"github.com/yashagw/clinicdb/internal/record"
)

// Parser is a parser for the clinic command language.
type Parser struct {
	lexer *Lexer
}

func NewParser(lexer *Lexer) *Parser {
	return &Parser{
		lexer: lexer,
	}
}

func NewParserFromString(cmd string) *Parser {
	lexer := NewLexer(cmd)
	return NewParser(lexer)
}

func (p *Parser) expected(what string) error {
	return p.lexer.unexpected(what)
}

func (p *Parser) field() (string, error) {
	return p.lexer.EatId()
}

// constant reads an integer or a quoted string.
func (p *Parser) constant() (*query.Constant, error) {
	switch {
	case p.lexer.MatchIntConstant():
		v, err := p.lexer.EatIntConstant()
		if err != nil {
			return nil, err
		}
		return query.NewIntConstant(v), nil
	case p.lexer.MatchStringConstant():
		v, err := p.lexer.EatStringConstant()
		if err != nil {
			return nil, err
		}
		return query.NewStringConstant(v), nil
	}
	return nil, p.expected("constant")
}

func (p *Parser) expression() (*query.Expression, error) {
	if p.lexer.MatchId() {
		id, err := p.field()
		if err != nil {
			return nil, err
		}
		return query.NewFieldNameExpression(id), nil
	}
	c, err := p.constant()
	if err != nil {
		return nil, p.expected("field name or constant")
	}
	return query.NewConstantExpression(*c), nil
}

func (p *Parser) term() (*query.Term, error) {
	left, err := p.expression()
	if err != nil {
		return nil, err
	}
	err = p.lexer.EatDelim('=')
	if err != nil {
		return nil, err
	}
	right, err := p.expression()
	if err != nil {
		return nil, err
	}
	return query.NewTerm(*left, *right), nil
}

func (p *Parser) predicate() (*query.Predicate, error) {
	firstTerm, err := p.term()
	if err != nil {
		return nil, err
	}
	pred := query.NewPredicate(*firstTerm)
	for p.lexer.MatchKeyword("and") {
		p.lexer.EatKeyword("and")
		term, err := p.term()
		if err != nil {
			return nil, err
		}
		pred.ConjunctWith(*query.NewPredicate(*term))
	}
	return pred, nil
}

// text reads a quoted string.
func (p *Parser) text(what string) (string, error) {
	if !p.lexer.MatchStringConstant() {
		return "", p.expected(what)
	}
	return p.lexer.EatStringConstant()
}

// policy reads a quoted policy, or a bare number keeping its leading zeros.
func (p *Parser) policy() (string, error) {
	if p.lexer.MatchIntConstant() {
		raw := p.lexer.Token()
		if _, err := p.lexer.EatIntConstant(); err != nil {
			return "", err
		}
		return raw, nil
	}
	return p.text("policy")
}

// date reads "day month year". The month may be a number or a name.
func (p *Parser) date() (record.Date, error) {
	if !p.lexer.MatchIntConstant() {
		return record.Date{}, p.expected("day")
	}
	day, err := p.lexer.EatIntConstant()
	if err != nil {
		return record.Date{}, err
	}

	var monthText string
	if p.lexer.MatchStringConstant() {
		monthText, err = p.lexer.EatStringConstant()
	} else {
		monthText, err = p.lexer.EatWord()
	}
	if err != nil {
		return record.Date{}, p.expected("month")
	}
	month, err := record.ParseMonth(monthText)
	if err != nil {
		return record.Date{}, fmt.Errorf("%w: %w", ErrBadSyntax, err)
	}

	if !p.lexer.MatchIntConstant() {
		return record.Date{}, p.expected("year")
	}
	year, err := p.lexer.EatIntConstant()
	if err != nil {
		return record.Date{}, err
	}
	return record.NewDate(day, month, year), nil
}

// Command parses one complete command. A trailing semicolon is allowed.
func (p *Parser) Command() (any, error) {
	var (
		cmd any
		err error
	)
	switch {
	case p.lexer.MatchKeyword("add"):
		cmd, err = p.add()
	case p.lexer.MatchKeyword("delete"):
		cmd, err = p.delete()
	case p.lexer.MatchKeyword("get"):
		cmd, err = p.get()
	case p.lexer.MatchKeyword("list"):
		cmd, err = p.list()
	case p.lexer.MatchKeyword("stats"):
		p.lexer.EatKeyword("stats")
		cmd = &parserdata.StatsData{}
	case p.lexer.MatchKeyword("check"):
		p.lexer.EatKeyword("check")
		cmd = &parserdata.CheckData{}
	default:
		return nil, p.expected("add, delete, get, list, stats or check")
	}
	if err != nil {
		return nil, err
	}

	if p.lexer.MatchDelim(';') {
		p.lexer.EatDelim(';')
	}
	if !p.lexer.AtEnd() {
		return nil, p.expected("end of command")
	}
	return cmd, nil
}

func (p *Parser) add() (any, error) {
	// Add
	if err := p.lexer.EatKeyword("add"); err != nil {
		return nil, err
	}

	switch {
	case p.lexer.MatchKeyword("patient"):
		p.lexer.EatKeyword("patient")
		policy, err := p.policy()
		if err != nil {
			return nil, err
		}
		surname, err := p.text("surname")
		if err != nil {
			return nil, err
		}
		name, err := p.text("name")
		if err != nil {
			return nil, err
		}
		middlename, err := p.text("middle name")
		if err != nil {
			return nil, err
		}
		birth, err := p.date()
		if err != nil {
			return nil, err
		}
		return parserdata.NewAddPatientData(policy, record.Patient{
			Surname:    surname,
			Name:       name,
			Middlename: middlename,
			BirthDate:  birth,
		}), nil

	case p.lexer.MatchKeyword("appointment"):
		p.lexer.EatKeyword("appointment")
		policy, appt, err := p.appointment()
		if err != nil {
			return nil, err
		}
		return parserdata.NewAddAppointmentData(policy, appt), nil
	}
	return nil, p.expected("patient or appointment")
}

// appointment reads "policy doctor diagnosis day month year".
func (p *Parser) appointment() (string, record.Appointment, error) {
	policy, err := p.policy()
	if err != nil {
		return "", record.Appointment{}, err
	}
	doctor, err := p.text("doctor")
	if err != nil {
		return "", record.Appointment{}, err
	}
	diagnosis, err := p.text("diagnosis")
	if err != nil {
		return "", record.Appointment{}, err
	}
	date, err := p.date()
	if err != nil {
		return "", record.Appointment{}, err
	}
	return policy, record.Appointment{Doctor: doctor, Diagnosis: diagnosis, Date: date}, nil
}

func (p *Parser) delete() (any, error) {
	// Delete
	if err := p.lexer.EatKeyword("delete"); err != nil {
		return nil, err
	}

	switch {
	case p.lexer.MatchKeyword("patient"):
		p.lexer.EatKeyword("patient")
		policy, err := p.policy()
		if err != nil {
			return nil, err
		}
		return parserdata.NewDeletePatientData(policy), nil

	case p.lexer.MatchKeyword("appointment"):
		p.lexer.EatKeyword("appointment")
		policy, appt, err := p.appointment()
		if err != nil {
			return nil, err
		}
		return parserdata.NewDeleteAppointmentData(policy, appt), nil
	}
	return nil, p.expected("patient or appointment")
}

func (p *Parser) get() (*parserdata.GetPatientData, error) {
	// Get
	if err := p.lexer.EatKeyword("get"); err != nil {
		return nil, err
	}
	if err := p.lexer.EatKeyword("patient"); err != nil {
		return nil, p.expected("patient")
	}
	policy, err := p.policy()
	if err != nil {
		return nil, err
	}
	return parserdata.NewGetPatientData(policy), nil
}

func (p *Parser) list() (any, error) {
	// List
	if err := p.lexer.EatKeyword("list"); err != nil {
		return nil, err
	}

	if p.lexer.MatchKeyword("patients") {
		p.lexer.EatKeyword("patients")
		return &parserdata.ListPatientsData{}, nil
	}
	if err := p.lexer.EatKeyword("appointments"); err != nil {
		return nil, p.expected("patients or appointments")
	}

	if p.lexer.MatchKeyword("by") {
		return p.listByDate()
	}

	var pred *query.Predicate
	if p.lexer.MatchKeyword("for") {
		p.lexer.EatKeyword("for")
		policy, err := p.policy()
		if err != nil {
			return nil, err
		}
		pred = query.NewPredicate(*query.NewTerm(
			*query.NewFieldNameExpression("policy"),
			*query.NewConstantExpression(*query.NewStringConstant(policy)),
		))
	}

	if !p.lexer.MatchKeyword("where") {
		return parserdata.NewListAppointmentsData(pred), nil
	}
	p.lexer.EatKeyword("where")
	where, err := p.predicate()
	if err != nil {
		return nil, fmt.Errorf("%w: bad where clause near %q", ErrBadSyntax, p.lexer.Token())
	}
	if pred == nil {
		pred = where
	} else {
		pred.ConjunctWith(*where)
	}
	return parserdata.NewListAppointmentsData(pred), nil
}

func (p *Parser) listByDate() (*parserdata.ListByDateData, error) {
	// By Date
	if err := p.lexer.EatKeyword("by"); err != nil {
		return nil, err
	}
	if err := p.lexer.EatKeyword("date"); err != nil {
		return nil, p.expected("date")
	}

	var from, to *record.Date
	if p.lexer.MatchKeyword("from") {
		p.lexer.EatKeyword("from")
		d, err := p.date()
		if err != nil {
			return nil, err
		}
		from = &d
	}
	if p.lexer.MatchKeyword("to") {
		p.lexer.EatKeyword("to")
		d, err := p.date()
		if err != nil {
			return nil, err
		}
		to = &d
	}
	return parserdata.NewListByDateData(from, to), nil
}
