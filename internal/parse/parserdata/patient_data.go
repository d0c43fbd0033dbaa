package parserdata

import "github.com/yashagw/clinicdb/internal/record"

type AddPatientData struct {
	policy  string
	patient record.Patient
}

func NewAddPatientData(policy string, patient record.Patient) *AddPatientData {
	return &AddPatientData{
		policy:  policy,
		patient: patient,
	}
}

func (d *AddPatientData) Policy() string {
	return d.policy
}

func (d *AddPatientData) Patient() record.Patient {
	return d.patient
}

type DeletePatientData struct {
	policy string
}

func NewDeletePatientData(policy string) *DeletePatientData {
	return &DeletePatientData{
		policy: policy,
	}
}

func (d *DeletePatientData) Policy() string {
	return d.policy
}

type GetPatientData struct {
	policy string
}

func NewGetPatientData(policy string) *GetPatientData {
	return &GetPatientData{
		policy: policy,
	}
}

func (d *GetPatientData) Policy() string {
	return d.policy
}

type ListPatientsData struct{}
