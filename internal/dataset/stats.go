package dataset

import (
	"fmt"

	"github.com/yashagw/clinicdb/internal/index"
)

type Stats struct {
	Patients            int
	PatientCapacity     int
	Appointments        int
	AppointmentCapacity int
	PolicyIndex         index.HashStats
	OwnerIndex          index.TreeStats
	DateIndex           index.TreeStats
	OwnerTreeHeight     int
	DateTreeHeight      int
}

func (ds *Dataset) Stats() Stats {
	return Stats{
		Patients:            ds.patients.Size(),
		PatientCapacity:     ds.patients.Capacity(),
		Appointments:        ds.appointments.Size(),
		AppointmentCapacity: ds.appointments.Capacity(),
		PolicyIndex:         ds.byPolicy.Statistics(),
		OwnerIndex:          ds.byOwner.Statistics(),
		DateIndex:           ds.byDate.Statistics(),
		OwnerTreeHeight:     ds.byOwner.Height(),
		DateTreeHeight:      ds.byDate.Height(),
	}
}

// Rows returns the statistics as name/value pairs.
func (s Stats) Rows() [][]string {
	return [][]string{
		{"Patients", fmt.Sprintf("%d/%d", s.Patients, s.PatientCapacity)},
		{"Appointments", fmt.Sprintf("%d/%d", s.Appointments, s.AppointmentCapacity)},
		{"PolicyIndex.TotalSlots", fmt.Sprintf("%d", s.PolicyIndex.TotalSlots)},
		{"PolicyIndex.UsedSlots", fmt.Sprintf("%d", s.PolicyIndex.UsedSlots)},
		{"PolicyIndex.Tombstones", fmt.Sprintf("%d", s.PolicyIndex.Tombstones)},
		{"PolicyIndex.LoadFactor", fmt.Sprintf("%.3f", s.PolicyIndex.LoadFactor)},
		{"OwnerIndex.Nodes", fmt.Sprintf("%d", s.OwnerIndex.NodeCount)},
		{"OwnerIndex.Records", fmt.Sprintf("%d", s.OwnerIndex.RecordCount)},
		{"OwnerIndex.Height", fmt.Sprintf("%d", s.OwnerTreeHeight)},
		{"DateIndex.Nodes", fmt.Sprintf("%d", s.DateIndex.NodeCount)},
		{"DateIndex.Records", fmt.Sprintf("%d", s.DateIndex.RecordCount)},
		{"DateIndex.Height", fmt.Sprintf("%d", s.DateTreeHeight)},
	}
}

func (s Stats) String() string {
	return index.Align(s.Rows())
}
