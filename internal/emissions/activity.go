package emissions

// Scope1Activity holds direct-emission activity quantities.
type Scope1Activity struct {
	NaturalGas   float64 `json:"naturalGas"   yaml:"naturalGas"`   // m³
	Diesel       float64 `json:"diesel"       yaml:"diesel"`       // L
	Petrol       float64 `json:"petrol"       yaml:"petrol"`       // L
	Refrigerants float64 `json:"refrigerants" yaml:"refrigerants"` // kg
	LPG          float64 `json:"lpg"          yaml:"lpg"`          // kg
}

// Scope2Activity holds purchased-energy activity quantities, all in kWh.
type Scope2Activity struct {
	Electricity float64 `json:"electricity" yaml:"electricity"`
	Heating     float64 `json:"heating"     yaml:"heating"`
	Cooling     float64 `json:"cooling"     yaml:"cooling"`
	Steam       float64 `json:"steam"       yaml:"steam"`
}

// Scope3Activity holds value-chain activity quantities.
type Scope3Activity struct {
	BusinessTravel      float64 `json:"businessTravel"      yaml:"businessTravel"`      // km
	EmployeeCommuting   float64 `json:"employeeCommuting"   yaml:"employeeCommuting"`   // km
	WasteGenerated      float64 `json:"wasteGenerated"      yaml:"wasteGenerated"`      // tonnes
	PurchasedGoods      float64 `json:"purchasedGoods"      yaml:"purchasedGoods"`      // currency units
	UpstreamTransport   float64 `json:"upstreamTransport"   yaml:"upstreamTransport"`   // tonne-km
	DownstreamTransport float64 `json:"downstreamTransport" yaml:"downstreamTransport"` // tonne-km
}

// Activity bundles the three scope records of one calculation request.
type Activity struct {
	Scope1 Scope1Activity `json:"scope1" yaml:"scope1"`
	Scope2 Scope2Activity `json:"scope2" yaml:"scope2"`
	Scope3 Scope3Activity `json:"scope3" yaml:"scope3"`
}

// ZeroActivity returns an all-zero activity set.
func ZeroActivity() Activity {
	return Activity{}
}

// entries returns the record as category/value pairs in declaration order.
func (a Scope1Activity) entries() []CategoryValue {
	return []CategoryValue{
		{NaturalGas, a.NaturalGas},
		{Diesel, a.Diesel},
		{Petrol, a.Petrol},
		{Refrigerants, a.Refrigerants},
		{LPG, a.LPG},
	}
}

func (a Scope2Activity) entries() []CategoryValue {
	return []CategoryValue{
		{Electricity, a.Electricity},
		{Heating, a.Heating},
		{Cooling, a.Cooling},
		{Steam, a.Steam},
	}
}

func (a Scope3Activity) entries() []CategoryValue {
	return []CategoryValue{
		{BusinessTravel, a.BusinessTravel},
		{EmployeeCommuting, a.EmployeeCommuting},
		{WasteGenerated, a.WasteGenerated},
		{PurchasedGoods, a.PurchasedGoods},
		{UpstreamTransport, a.UpstreamTransport},
		{DownstreamTransport, a.DownstreamTransport},
	}
}

// Entries returns every quantity in the set, scope by scope, in declaration order.
func (a Activity) Entries() []CategoryValue {
	out := make([]CategoryValue, 0, len(categoryMeta))
	out = append(out, a.Scope1.entries()...)
	out = append(out, a.Scope2.entries()...)
	out = append(out, a.Scope3.entries()...)
	return out
}

// Get returns the quantity recorded for c. Unknown categories read as zero.
func (a Activity) Get(c Category) float64 {
	if p := a.field(c); p != nil {
		return *p
	}
	return 0
}

// Set records v for c. It reports false for an unknown category.
func (a *Activity) Set(c Category, v float64) bool {
	p := a.field(c)
	if p == nil {
		return false
	}
	*p = v
	return true
}

//nolint:gocyclo // One case per category; the switch is the compile-checked mapping.
func (a *Activity) field(c Category) *float64 {
	switch c {
	case NaturalGas:
		return &a.Scope1.NaturalGas
	case Diesel:
		return &a.Scope1.Diesel
	case Petrol:
		return &a.Scope1.Petrol
	case Refrigerants:
		return &a.Scope1.Refrigerants
	case LPG:
		return &a.Scope1.LPG
	case Electricity:
		return &a.Scope2.Electricity
	case Heating:
		return &a.Scope2.Heating
	case Cooling:
		return &a.Scope2.Cooling
	case Steam:
		return &a.Scope2.Steam
	case BusinessTravel:
		return &a.Scope3.BusinessTravel
	case EmployeeCommuting:
		return &a.Scope3.EmployeeCommuting
	case WasteGenerated:
		return &a.Scope3.WasteGenerated
	case PurchasedGoods:
		return &a.Scope3.PurchasedGoods
	case UpstreamTransport:
		return &a.Scope3.UpstreamTransport
	case DownstreamTransport:
		return &a.Scope3.DownstreamTransport
	default:
		return nil
	}
}
