package models

var resolutionLabels = map[Code]string{
	Res1080p: "1080p",
	Res1080i: "1080i",
	Res720p:  "720p",
	ResSD:    "SD",
	Res2160p: "2160p",
	Res4320p: "4320p",
	Res1440p: "1440p",
}

var videoLabels = map[Code]string{
	VideoAVC:   "H.264/AVC",
	VideoVC1:   "VC-1",
	VideoMPEG2: "MPEG-2",
	VideoHEVC:  "H.265/HEVC",
}

var audioLabels = map[Code]string{
	AudioFLAC:  "FLAC",
	AudioDTS:   "DTS",
	AudioMP3:   "MP3",
	AudioAAC:   "AAC",
	AudioDTSHD: "DTS-HD",
	AudioAC3:   "AC-3",
}

func ResolutionLabel(c Code) string { return resolutionLabels[c] }
func VideoLabel(c Code) string      { return videoLabels[c] }
func AudioLabel(c Code) string      { return audioLabels[c] }
