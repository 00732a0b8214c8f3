package constants

const (
	Version        = `0.1.0`
	AppName        = `ancards`
	ConfigFile     = `cfg`
	ConfigFileType = `yaml`
	ConfigDir      = `/.ancards/`
	ViewsDir       = `views`
	LogFile        = `ancards.log`
	DefaultView    = `default`
)
