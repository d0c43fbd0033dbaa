package parserdata

type StatsData struct{}

type CheckData struct{}
