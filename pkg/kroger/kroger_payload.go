package kroger

import (
	"Recipe-Book/domain"
)

type locationsResponse struct {
	Data []struct {
		LocationID string `json:"locationId"`
		Name       string `json:"name"`
		Chain      string `json:"chain"`
		Address    struct {
			AddressLine1 string `json:"addressLine1"`
			City         string `json:"city"`
			State        string `json:"state"`
			ZipCode      string `json:"zipCode"`
		} `json:"address"`
	} `json:"data"`
}

type productsResponse struct {
	Data []product `json:"data"`
}

type product struct {
	ProductID      string `json:"productId"`
	UPC            string `json:"upc"`
	Brand          string `json:"brand"`
	Description    string `json:"description"`
	AisleLocations []struct {
		Description string `json:"description"`
	} `json:"aisleLocations"`
	Images []struct {
		Perspective string `json:"perspective"`
		Featured    bool   `json:"featured"`
		Sizes       []struct {
			Size string `json:"size"`
			URL  string `json:"url"`
		} `json:"sizes"`
	} `json:"images"`
	Items []struct {
		Size  string `json:"size"`
		Price struct {
			Regular float64 `json:"regular"`
			Promo   float64 `json:"promo"`
		} `json:"price"`
	} `json:"items"`
}

func (p product) toDomain() domain.KrogerProduct {
	res := domain.KrogerProduct{
		ProductID:   p.ProductID,
		UPC:         p.UPC,
		Description: p.Description,
		Brand:       p.Brand,
		ImageURL:    p.imageURL(),
	}
	if len(p.AisleLocations) > 0 {
		res.Aisle = p.AisleLocations[0].Description
	}
	if len(p.Items) > 0 {
		res.Size = p.Items[0].Size
		res.Price = p.Items[0].Price.Regular
		res.PromoPrice = p.Items[0].Price.Promo
	}
	return res
}

// imageURL picks the medium front image, falling back to the first available size.
func (p product) imageURL() string {
	fallback := ""
	for _, img := range p.Images {
		for _, size := range img.Sizes {
			if fallback == "" {
				fallback = size.URL
			}
			if img.Perspective == "front" && size.Size == "medium" {
				return size.URL
			}
		}
	}
	return fallback
}
