package domain

// Platform identifica uma das plataformas de anúncio suportadas pela bridge.
type Platform string

const (
	PlatformMeta   Platform = "meta"
	PlatformGoogle Platform = "google"
)

func (p Platform) String() string {
	return string(p)
}
