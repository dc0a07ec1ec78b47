// internal/sensor/registry.go
package sensor

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShaiKKO/EnviroSense-sub003/internal/config"
	"github.com/ShaiKKO/EnviroSense-sub003/internal/data"
)

// Supported modality names, as used in fleet files.
const (
	ModalityEMF         = "emf"
	ModalityAcoustic    = "acoustic"
	ModalityParticulate = "particulate"
	ModalityThermal     = "thermal"
	ModalityChemical    = "chemical"
)

// Modalities lists the supported modality names.
func Modalities() []string {
	return []string{ModalityEMF, ModalityAcoustic, ModalityParticulate, ModalityThermal, ModalityChemical}
}

// New constructs a sensor of the named modality. An empty id gets a
// generated UUID. Construction fails fast with a *config.ConfigError on
// invalid or missing required parameters; no sample is produced afterwards.
func New(modality, id string, pos data.Position3D, params config.Params, log *zap.Logger) (Sensor, error) {
	if id == "" {
		id = uuid.NewString()
	}
	switch modality {
	case ModalityEMF:
		return NewEMF(id, pos, params, log)
	case ModalityAcoustic:
		return NewAcoustic(id, pos, params, log)
	case ModalityParticulate:
		return NewParticulate(id, pos, params, log)
	case ModalityThermal:
		return NewThermal(id, pos, params, log)
	case ModalityChemical:
		return NewChemical(id, pos, params, log)
	default:
		return nil, config.Errorf("modality", "unknown modality %q", modality)
	}
}
