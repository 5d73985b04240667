package testutil

// SampleCustomerData is a month of real delivery records. It covers
// multi-run customers, zero-quantity runs, padded balances and a non-ASCII
// name.
var SampleCustomerData = []string{
	"Gaffer:(5-7)(4-22)(0-1)(2-1):000",
	"Noman:(4-31):00",
	"Anwar garden:(1.5-31):00",
	"Israr:(1.5-31):00",
	"Master Rustum:(3.25-31):00",
	"Waheed:(0.5-31):00",
	"Asif Police:(0.455-31):00",
	"Rana k Bra√üer:(1.75-31):800",
	"Saqib:(2-17):9200",
	"Arshad:(1-16):33375",
	"Ateeq:(05-23):11115",
	"Saleem:(0.5-23):16000",
	"Rang ke Samney:(0.363-31):600",
}

const (
	SampleCompanyName   = "Yousaf Meo"
	SampleBillingPeriod = "August - 2024"
	SamplePricePerLiter = "220"
)
