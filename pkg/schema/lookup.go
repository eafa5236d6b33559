package schema

// FindService returns the first service whose Name equals name exactly.
func FindService(catalog Catalog, name string) (Service, bool) {
	for _, service := range catalog.Services {
		if service.Name == name {
			return service, true
		}
	}
	return Service{}, false
}

// FindProvider returns the first provider of service whose Name equals name
// exactly.
func FindProvider(service Service, name string) (Provider, bool) {
	for _, provider := range service.Providers {
		if provider.Name == name {
			return provider, true
		}
	}
	return Provider{}, false
}

