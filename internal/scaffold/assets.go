package scaffold

// Asset is a sample image fetched into the samples directory.
type Asset struct {
	URL      string `yaml:"url" json:"url"`
	Filename string `yaml:"filename" json:"filename"`
}

const commonsFilePath = "https://commons.wikimedia.org/wiki/Special:FilePath/"

// DefaultAssets returns the sample images, in fetch order.
func DefaultAssets() []Asset {
	return []Asset{
		{URL: commonsFilePath + "Common_myna_(Acridotheres_tristis).jpg", Filename: "common_myna.jpg"},
		{URL: commonsFilePath + "House_sparrow_male_in_Prospect_Park_(53532).jpg", Filename: "house_sparrow.jpg"},
		{URL: commonsFilePath + "Red-vented_Bulbul_(Pycnonotus_cafer)-_at_Sindhrot_near_Vadodara,_Gujarat_Pic_1.jpg", Filename: "red_vented_bulbul.jpg"},
		{URL: commonsFilePath + "Rhesus_macaque_(Macaca_mulatta_mulatta),_male,_Gokarna.jpg", Filename: "rhesus_macaque.jpg"},
		{URL: commonsFilePath + "Peacock_Plumage.jpg", Filename: "indian_peafowl.jpg"},
	}
}
