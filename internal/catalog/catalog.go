// Package catalog holds the static vehicle, part and region lookup tables
// backing the search form. Pure data, no behavior beyond lookups.
package catalog

import (
	"time"

	"github.com/bhenrique21/cotarpecas/internal/store"
)

type State struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var vehicleMakes = map[store.VehicleType][]string{
	store.VehicleCar: {
		"Chevrolet", "Volkswagen", "Fiat", "Ford", "Toyota", "Hyundai", "Honda",
		"Jeep", "Renault", "Nissan", "Mitsubishi", "BMW", "Mercedes-Benz", "Audi",
		"Peugeot", "Citroën", "Kia", "BYD", "Chery", "Land Rover", "Volvo",
	},
	store.VehicleMotorcycle: {
		"Honda", "Yamaha", "Suzuki", "BMW", "Kawasaki", "Triumph",
		"Harley-Davidson", "Ducati", "Royal Enfield", "Dafra", "KTM",
	},
	store.VehicleTruck: {
		"Mercedes-Benz", "Scania", "Volvo", "Volkswagen", "Iveco", "DAF", "Ford", "MAN",
	},
	store.VehicleBus: {
		"Mercedes-Benz", "Volkswagen", "Scania", "Volvo", "Agrale", "Iveco",
		"Marcopolo", "Caio", "Busscar",
	},
}

var vehicleModels = map[string][]string{
	"Chevrolet":  {"Onix", "Onix Plus", "Tracker", "S10", "Cruze", "Spin", "Montana", "Celta", "Prisma", "Cobalt", "Astra", "Vectra", "Corsa"},
	"Volkswagen": {"Polo", "T-Cross", "Nivus", "Virtus", "Jetta", "Amarok", "Saveiro", "Gol", "Voyage", "Fox", "Golf", "Fusca", "Kombi"},
	"Fiat":       {"Strada", "Mobi", "Argo", "Cronos", "Pulse", "Fastback", "Toro", "Fiorino", "Uno", "Palio", "Palio Weekend", "Siena", "Punto", "Idea"},
	"Ford":       {"Ranger", "Maverick", "Territory", "Ka", "Ka Sedan", "EcoSport", "Fiesta", "Focus", "Fusion", "Courier"},
	"Toyota":     {"Hilux", "Corolla", "Corolla Cross", "Yaris Hatch", "Yaris Sedan", "SW4", "RAV4", "Etios Hatch", "Etios Sedan"},
	"Hyundai":    {"HB20", "HB20S", "Creta", "Tucson", "Santa Fe", "IX35", "i30", "HB20X"},
	"Honda":      {"Civic", "HR-V", "City", "Fit", "WR-V", "CR-V", "Accord", "CG 160 Fan", "CG 160 Titan", "Biz 125", "PCX 160", "CB 500X"},
	"Jeep":       {"Renegade", "Compass", "Commander", "Wrangler"},
	"Renault":    {"Kwid", "Duster", "Oroch", "Sandero", "Logan", "Captur", "Stepway", "Clio", "Megane"},
	"Nissan":     {"Kicks", "Versa", "Sentra", "Frontier", "March", "Tiida"},
	"Yamaha":     {"Fazer 250", "Fazer 150", "Crosser 150", "Lander 250", "NMAX 160", "Factor 125", "MT-03", "XJ6", "YBR 125"},
	"Suzuki":     {"GSX-S750", "V-Strom 650", "Burgman 125", "GSR 150i", "Intruder 125"},
	"Scania":     {"R 450", "R 500", "S 540", "G 420", "P 320", "124 360"},
	"Iveco":      {"Daily", "Tector", "Hi-Way", "S-Way"},
	"Marcopolo":  {"Paradiso 1200", "Paradiso 1050", "Viaggio 1050", "Torino", "Viale", "Senior"},
	"Agrale":     {"Volare V8", "Volare W9", "MA 15.0", "MA 17.0"},
}

var suggestedParts = []string{
	"Pastilha de Freio",
	"Amortecedor Dianteiro",
	"Kit Embreagem",
	"Óleo do Motor",
	"Filtro de Ar",
	"Bateria",
	"Pneu",
	"Correia Dentada",
	"Farol Principal",
	"Retrovisor",
	"Bomba d'água",
	"Vela de Ignição",
	"Disco de Freio",
	"Radiador",
	"Alternador",
	"Motor de Partida",
	"Coxim do Motor",
	"Junta do Cabeçote",
	"Sonda Lambda",
	"Bobina de Ignição",
}

var states = []State{
	{"AC", "Acre"}, {"AL", "Alagoas"}, {"AP", "Amapá"}, {"AM", "Amazonas"},
	{"BA", "Bahia"}, {"CE", "Ceará"}, {"DF", "Distrito Federal"},
	{"ES", "Espírito Santo"}, {"GO", "Goiás"}, {"MA", "Maranhão"},
	{"MT", "Mato Grosso"}, {"MS", "Mato Grosso do Sul"}, {"MG", "Minas Gerais"},
	{"PA", "Pará"}, {"PB", "Paraíba"}, {"PR", "Paraná"}, {"PE", "Pernambuco"},
	{"PI", "Piauí"}, {"RJ", "Rio de Janeiro"}, {"RN", "Rio Grande do Norte"},
	{"RS", "Rio Grande do Sul"}, {"RO", "Rondônia"}, {"RR", "Roraima"},
	{"SC", "Santa Catarina"}, {"SP", "São Paulo"}, {"SE", "Sergipe"},
	{"TO", "Tocantins"},
}

// Makes lists the known makes for a vehicle type, nil for unknown types.
func Makes(v store.VehicleType) []string {
	return vehicleMakes[v]
}

// Models lists the known models for a make, nil for unknown makes.
func Models(make string) []string {
	return vehicleModels[make]
}

func SuggestedParts() []string {
	return suggestedParts
}

func States() []State {
	return states
}

// Years lists the last 50 model years, newest first.
func Years(now time.Time) []int {
	current := now.Year()
	years := make([]int, 0, 50)
	for y := current; y > current-50; y-- {
		years = append(years, y)
	}
	return years
}
